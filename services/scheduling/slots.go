package scheduling

// SlotConstraints is everything needed to test an anchor for one technician.
type SlotConstraints struct {
	ShiftStart int
	ShiftEnd   int
	Duration   int
	Busy       []Interval // merged busy set for the day

	// NowMinutes rejects past starts when the queried date is today;
	// -1 disables the check for future dates.
	NowMinutes int
}

// GenerateSlots prunes anchors to the feasible start minutes. An anchor
// survives only if it is not in the past, fits entirely inside the shift,
// and its service window overlaps nothing in the busy set.
func GenerateSlots(anchors []Anchor, c SlotConstraints) []int {
	var starts []int
	for _, a := range anchors {
		start := a.Minute
		if c.NowMinutes >= 0 && start < c.NowMinutes {
			continue
		}
		if start < c.ShiftStart {
			continue
		}
		if start+c.Duration > c.ShiftEnd {
			continue
		}
		candidate := Interval{Start: start, End: start + c.Duration}
		blocked := false
		for _, busy := range c.Busy {
			if Overlaps(candidate, busy) {
				blocked = true
				break
			}
		}
		if !blocked {
			starts = append(starts, start)
		}
	}
	return starts
}
