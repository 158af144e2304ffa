package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Skarath13/bloom-sub003/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	require.NoError(t, err)
	return d
}

func occurrenceDates(occs []BlockOccurrence) []string {
	dates := make([]string, 0, len(occs))
	for _, o := range occs {
		dates = append(dates, o.Date)
	}
	return dates
}

func TestParseRecurrenceRule(t *testing.T) {
	testCases := []struct {
		name    string
		rule    string
		want    Rule
		wantErr bool
	}{
		{
			name: "weekly with interval and count",
			rule: "FREQ=WEEKLY;INTERVAL=2;COUNT=10",
			want: Rule{Freq: "WEEKLY", Interval: 2, Count: 10},
		},
		{
			name: "daily defaults interval to 1",
			rule: "FREQ=DAILY",
			want: Rule{Freq: "DAILY", Interval: 1},
		},
		{
			name: "until in compact form",
			rule: "FREQ=MONTHLY;UNTIL=20240131",
			want: Rule{Freq: "MONTHLY", Interval: 1, Until: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), HasUntil: true},
		},
		{name: "empty rule", rule: "", wantErr: true},
		{name: "missing freq", rule: "INTERVAL=2", wantErr: true},
		{name: "unsupported freq", rule: "FREQ=YEARLY", wantErr: true},
		{name: "garbage component", rule: "FREQ=DAILY;banana", wantErr: true},
		{name: "zero interval", rule: "FREQ=DAILY;INTERVAL=0", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRecurrenceRule(tc.rule)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExpandBlock_BiweeklyJanuary(t *testing.T) {
	// A WEEKLY rule with INTERVAL=2 starting Monday Jan 1, queried over
	// [Jan 1, Jan 31), lands on Jan 1, Jan 15 and Jan 29 only.
	block := models.TimeBlock{
		ID:           "blk-1",
		TechnicianID: "tech-1",
		Date:         "2024-01-01",
		Start:        9 * 60,
		End:          10 * 60,
		Recurrence:   "FREQ=WEEKLY;INTERVAL=2",
	}

	occs := ExpandBlock(block, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"), time.UTC, zap.NewNop())
	assert.Equal(t, []string{"2024-01-01", "2024-01-15", "2024-01-29"}, occurrenceDates(occs))
}

func TestExpandBlock_WindowMembership(t *testing.T) {
	block := models.TimeBlock{
		ID:         "blk-2",
		Date:       "2024-01-01",
		Start:      600,
		End:        660,
		Recurrence: "FREQ=DAILY",
	}

	occs := ExpandBlock(block, mustDate(t, "2024-01-05"), mustDate(t, "2024-01-08"), time.UTC, zap.NewNop())
	require.Len(t, occs, 3)
	for _, o := range occs {
		day := mustDate(t, o.Date)
		assert.False(t, day.Before(mustDate(t, "2024-01-05")), "occurrence %s before window", o.Date)
		assert.True(t, day.Before(mustDate(t, "2024-01-08")), "occurrence %s past window", o.Date)
	}
}

func TestExpandBlock_ExceptionSuppressed(t *testing.T) {
	block := models.TimeBlock{
		ID:         "blk-3",
		Date:       "2024-01-01",
		Start:      600,
		End:        660,
		Recurrence: "FREQ=WEEKLY",
		Exceptions: []string{"2024-01-15"},
	}

	occs := ExpandBlock(block, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"), time.UTC, zap.NewNop())
	dates := occurrenceDates(occs)
	assert.NotContains(t, dates, "2024-01-15")
	// The exception must not shift later occurrences.
	assert.Contains(t, dates, "2024-01-22")
	assert.Contains(t, dates, "2024-01-29")
}

func TestExpandBlock_CountIncludesSuppressed(t *testing.T) {
	// COUNT terminates on generated steps: a suppressed occurrence still
	// consumes one of the two.
	block := models.TimeBlock{
		ID:         "blk-4",
		Date:       "2024-01-01",
		Start:      600,
		End:        660,
		Recurrence: "FREQ=DAILY;COUNT=2",
		Exceptions: []string{"2024-01-01"},
	}

	occs := ExpandBlock(block, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"), time.UTC, zap.NewNop())
	assert.Equal(t, []string{"2024-01-02"}, occurrenceDates(occs))
}

func TestExpandBlock_UntilInclusive(t *testing.T) {
	block := models.TimeBlock{
		ID:         "blk-5",
		Date:       "2024-01-01",
		Start:      600,
		End:        660,
		Recurrence: "FREQ=WEEKLY;UNTIL=20240115",
	}

	occs := ExpandBlock(block, mustDate(t, "2024-01-01"), mustDate(t, "2024-02-01"), time.UTC, zap.NewNop())
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-15"}, occurrenceDates(occs))
}

func TestExpandBlock_UnparseableRuleExpandsToNothing(t *testing.T) {
	block := models.TimeBlock{
		ID:         "blk-6",
		Date:       "2024-01-01",
		Start:      600,
		End:        660,
		Recurrence: "FREQ=SOMETIMES;WHEN=MOOD",
	}

	occs := ExpandBlock(block, mustDate(t, "2024-01-01"), mustDate(t, "2024-12-31"), time.UTC, zap.NewNop())
	assert.Empty(t, occs)
}

func TestExpandBlock_OneOff(t *testing.T) {
	block := models.TimeBlock{ID: "blk-7", Date: "2024-03-10", Start: 720, End: 780}

	t.Run("inside window", func(t *testing.T) {
		occs := ExpandBlock(block, mustDate(t, "2024-03-10"), mustDate(t, "2024-03-11"), time.UTC, zap.NewNop())
		require.Len(t, occs, 1)
		assert.Equal(t, "2024-03-10", occs[0].Date)
	})
	t.Run("outside window", func(t *testing.T) {
		occs := ExpandBlock(block, mustDate(t, "2024-03-11"), mustDate(t, "2024-03-12"), time.UTC, zap.NewNop())
		assert.Empty(t, occs)
	})
}

func TestExpandBlock_IterationCapTerminates(t *testing.T) {
	// An unbounded daily rule over a huge window stops at the safety cap
	// instead of spinning.
	block := models.TimeBlock{
		ID:         "blk-8",
		Date:       "2024-01-01",
		Start:      600,
		End:        660,
		Recurrence: "FREQ=DAILY",
	}

	occs := ExpandBlock(block, mustDate(t, "2024-01-01"), mustDate(t, "2034-01-01"), time.UTC, zap.NewNop())
	assert.Len(t, occs, maxRecurrenceSteps)
}
