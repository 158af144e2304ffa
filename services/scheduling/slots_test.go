package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anchorMinutes(anchors []Anchor) []int {
	out := make([]int, 0, len(anchors))
	for _, a := range anchors {
		out = append(out, a.Minute)
	}
	return out
}

func TestGenerateAnchors_SourcesAndPriority(t *testing.T) {
	// Shift 9:00-12:00, one appointment ending 10:00, buffer 15, one block
	// ending 11:00.
	anchors := GenerateAnchors(540, 720, 15, []int{600}, []int{660})

	minutes := anchorMinutes(anchors)
	assert.Equal(t, []int{540, 600, 615, 660}, minutes)

	kinds := make(map[int]AnchorKind)
	for _, a := range anchors {
		kinds[a.Minute] = a.Kind
	}
	assert.Equal(t, KindDayStart, kinds[540])
	// The hourly grid point at 10:00 outranks nothing here, but 11:00 is both
	// a grid point and a block end: the grid (day start) kind wins.
	assert.Equal(t, KindDayStart, kinds[660])
	assert.Equal(t, KindAppointmentEnd, kinds[615])
}

func TestGenerateAnchors_OffHourShiftStart(t *testing.T) {
	anchors := GenerateAnchors(545, 725, 0, nil, nil)
	assert.Equal(t, []int{545, 600, 660, 720}, anchorMinutes(anchors))
}

func TestGenerateSlots_RejectionRules(t *testing.T) {
	anchors := []Anchor{
		{Minute: 500, Kind: KindDayStart},  // before shift
		{Minute: 540, Kind: KindDayStart},  // ok
		{Minute: 600, Kind: KindDayStart},  // overlaps busy
		{Minute: 660, Kind: KindBlockEnd},  // ok, starts when busy ends
		{Minute: 1100, Kind: KindDayStart}, // would run past shift end
	}
	starts := GenerateSlots(anchors, SlotConstraints{
		ShiftStart: 540,
		ShiftEnd:   1140,
		Duration:   60,
		Busy:       []Interval{{600, 660}},
		NowMinutes: -1,
	})
	assert.Equal(t, []int{540, 660}, starts)
}

func TestGenerateSlots_NoPastStartsToday(t *testing.T) {
	anchors := []Anchor{
		{Minute: 540, Kind: KindDayStart},
		{Minute: 600, Kind: KindDayStart},
		{Minute: 660, Kind: KindDayStart},
	}
	starts := GenerateSlots(anchors, SlotConstraints{
		ShiftStart: 540,
		ShiftEnd:   1140,
		Duration:   30,
		NowMinutes: 600, // 10:00 — the 10:00 anchor itself is not "past"
	})
	assert.Equal(t, []int{600, 660}, starts)
}

// The concrete scenario: technician works 09:00-19:00 with a 15 minute
// buffer and one existing appointment 10:00-11:00. A 60-minute request must
// offer 09:00 and the post-buffer anchor 11:15, and nothing starting inside
// [09:46, 11:00).
func TestSlotGeneration_BufferScenario(t *testing.T) {
	shiftStart, shiftEnd := 9*60, 19*60
	busy := MergeIntervals([]Interval{{600, 660}})

	anchors := GenerateAnchors(shiftStart, shiftEnd, 15, []int{660}, nil)
	starts := GenerateSlots(anchors, SlotConstraints{
		ShiftStart: shiftStart,
		ShiftEnd:   shiftEnd,
		Duration:   60,
		Busy:       busy,
		NowMinutes: -1,
	})

	require.NotEmpty(t, starts)
	assert.Contains(t, starts, 540, "9:00 AM must be offered")
	assert.Contains(t, starts, 675, "11:15 AM (appointment end + buffer) must be offered")
	for _, s := range starts {
		if s >= 586 && s < 660 {
			t.Errorf("start %d lies in the excluded window [09:46, 11:00)", s)
		}
	}

	// No offered slot may overlap the merged busy set.
	for _, s := range starts {
		for _, b := range busy {
			assert.False(t, Overlaps(Interval{s, s + 60}, b),
				"slot starting at %d overlaps busy %v", s, b)
		}
	}
}

// Property: for any technician and day, no two generated slots overlap the
// merged busy set.
func TestSlotGeneration_NoDoubleBooking(t *testing.T) {
	busy := MergeIntervals([]Interval{{570, 630}, {700, 760}, {760, 790}, {1000, 1100}})
	anchors := GenerateAnchors(540, 1140, 10, []int{630, 760, 790}, []int{1100})

	for _, duration := range []int{15, 30, 45, 60, 90} {
		starts := GenerateSlots(anchors, SlotConstraints{
			ShiftStart: 540,
			ShiftEnd:   1140,
			Duration:   duration,
			Busy:       busy,
			NowMinutes: -1,
		})
		for _, s := range starts {
			for _, b := range busy {
				assert.False(t, Overlaps(Interval{s, s + duration}, b),
					"duration %d: slot %d overlaps busy %v", duration, s, b)
			}
			assert.GreaterOrEqual(t, s, 540)
			assert.LessOrEqual(t, s+duration, 1140)
		}
	}
}
