package scheduling

import "sort"

// AnchorKind identifies what proposed a candidate start time. Lower values
// are higher priority when anchors collide at the same minute.
type AnchorKind int

const (
	KindDayStart AnchorKind = iota // shift start and hourly grid points
	KindAppointmentEnd
	KindBlockEnd
)

// Anchor is an ephemeral candidate slot start.
type Anchor struct {
	Minute int
	Kind   AnchorKind
}

// GenerateAnchors proposes every start time worth testing for one technician
// on one day: the shift start, hourly grid points across the shift (so an
// empty day still shows a usable grid), the end of each existing appointment
// plus the technician's buffer (the earliest "ready again" times), and the
// end of each busy block. Anchors landing on the same minute are deduplicated
// keeping the highest-priority kind.
func GenerateAnchors(shiftStart, shiftEnd, bufferMinutes int, appointmentEnds, blockEnds []int) []Anchor {
	best := make(map[int]AnchorKind)
	propose := func(minute int, kind AnchorKind) {
		if existing, ok := best[minute]; !ok || kind < existing {
			best[minute] = kind
		}
	}

	propose(shiftStart, KindDayStart)
	for m := (shiftStart/60 + 1) * 60; m < shiftEnd; m += 60 {
		propose(m, KindDayStart)
	}
	for _, end := range appointmentEnds {
		propose(end+bufferMinutes, KindAppointmentEnd)
	}
	for _, end := range blockEnds {
		propose(end, KindBlockEnd)
	}

	anchors := make([]Anchor, 0, len(best))
	for minute, kind := range best {
		anchors = append(anchors, Anchor{Minute: minute, Kind: kind})
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Minute < anchors[j].Minute })
	return anchors
}
