package scheduling

import "sort"

// candidate set for one display time: which technicians can serve it.
type timeCandidates struct {
	Minute      int
	Technicians []string
}

// pickWinners assigns one technician per distinct start minute, preferring
// the technician with fewer appointments that day so workload spreads evenly.
// Ties break on ascending technician ID to keep results deterministic. This
// is a greedy per-slot choice, not a global matching — each slot is an
// independent booking opportunity.
func pickWinners(candidatesByMinute map[int][]string, appointmentCount map[string]int) []timeCandidates {
	minutes := make([]int, 0, len(candidatesByMinute))
	for m := range candidatesByMinute {
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	out := make([]timeCandidates, 0, len(minutes))
	for _, m := range minutes {
		techs := candidatesByMinute[m]
		sort.Strings(techs)
		winner := techs[0]
		for _, id := range techs[1:] {
			if appointmentCount[id] < appointmentCount[winner] {
				winner = id
			}
		}
		out = append(out, timeCandidates{Minute: m, Technicians: []string{winner}})
	}
	return out
}
