package report

import (
	"fmt"
	"strconv"
	"strings"
)

// PeriodOf buckets an elapsed-time value "MM:SS" into a period number:
// under 20 minutes is period 1, under 40 period 2, under 60 period 3, and
// anything beyond regulation is overtime (4). The second return is false
// for malformed or placeholder values (empty, a bare ":", non-numeric
// minutes); callers drop the row instead of fabricating an event at 00:00.
func PeriodOf(elapsed string) (int, bool) {
	elapsed = strings.TrimSpace(elapsed)
	mm, _, ok := strings.Cut(elapsed, ":")
	if !ok || strings.TrimSpace(mm) == "" {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || minutes < 0 {
		return 0, false
	}
	switch {
	case minutes < 20:
		return 1, true
	case minutes < 40:
		return 2, true
	case minutes < 60:
		return 3, true
	default:
		return 4, true
	}
}

// ParseScorePair parses a combined "H : A" text cell. Returns nil when the
// separator is absent or either side is non-numeric, so a malformed total
// cell reads as "score undefined" rather than 0 : 0.
func ParseScorePair(text string) *StatPair {
	home, away, ok := strings.Cut(text, ":")
	if !ok {
		return nil
	}
	h, err := strconv.Atoi(strings.TrimSpace(home))
	if err != nil {
		return nil
	}
	a, err := strconv.Atoi(strings.TrimSpace(away))
	if err != nil {
		return nil
	}
	return &StatPair{Home: h, Away: a}
}

// FormatScorePair renders a pair back into the sheet's "H : A" notation.
func FormatScorePair(p StatPair) string {
	return fmt.Sprintf("%d : %d", p.Home, p.Away)
}

// SumPairs adds any number of optional pairs; a nil pair contributes zero.
// The live page has no labelled total, so its aggregate score is this sum
// over the period 1, 2, 3, overtime and shootout cells.
func SumPairs(pairs ...*StatPair) StatPair {
	var sum StatPair
	for _, p := range pairs {
		if p == nil {
			continue
		}
		sum.Home += p.Home
		sum.Away += p.Away
	}
	return sum
}

// RecomputeTotal enforces the summary invariant: when all three regulation
// periods carry a numeric score, the total row is recomputed as their sum
// (plus overtime when present) instead of trusting a possibly mis-sourced
// total cell. With any period missing the parsed total is left as is.
func (s *PeriodSummaries) RecomputeTotal() {
	if s.Period1.Score == nil || s.Period2.Score == nil || s.Period3.Score == nil {
		return
	}
	sum := SumPairs(s.Period1.Score, s.Period2.Score, s.Period3.Score, s.Overtime.Score)
	s.Total.Score = &sum
	s.Total.ScoreText = FormatScorePair(sum)
}

// SplitNameRole strips a trailing role marker from a player name cell:
// "(C)" captain or "(A)" assistant captain. Unrecognized suffixes are left
// attached to the name rather than misclassified.
func SplitNameRole(cell string) (name, role string) {
	name = strings.TrimSpace(cell)
	for _, r := range []string{"C", "A"} {
		suffix := "(" + r + ")"
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(name, suffix)), r
		}
	}
	return name, ""
}

// ResolveGoalkeepers fills in goalkeeper names by joining jersey numbers
// against the team roster. Unmatched numbers (or an absent roster, as in
// the live variant) leave the name empty; never an error.
func ResolveGoalkeepers(lines []GoalkeeperLine, roster []RosterEntry) {
	byNo := make(map[int]string, len(roster))
	for _, p := range roster {
		byNo[p.No] = p.Name
	}
	for i := range lines {
		if name, ok := byNo[lines[i].No]; ok {
			lines[i].Name = name
		}
	}
}
