package scheduling

import "sort"

// Interval is an ephemeral busy range in minutes from midnight, derived from
// an appointment or an expanded block. Never persisted.
type Interval struct {
	Start int
	End   int
}

// Overlaps is the open-interval overlap test.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// MergeIntervals sorts intervals by start and collapses overlapping or
// touching neighbors into one. The output is minimal, sorted and
// non-overlapping; merging an already-merged set returns it unchanged.
func MergeIntervals(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]Interval, len(in))
	copy(sorted, in)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
