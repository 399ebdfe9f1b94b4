package report

// completeness orders variants for reconciliation. A higher rank may always
// replace a lower or equal one; a lower rank never replaces a higher one.
// Re-applying the same variant is a no-op-equivalent full replace, which
// keeps repeated extraction of an unchanged document idempotent.
var completeness = map[Variant]int{
	VariantLiveScore: 1,
	VariantFullSheet: 2,
}

// ShouldReplace reports whether a newly extracted report of variant
// incoming may replace a stored report of variant stored. An empty stored
// variant means no report exists yet and any pass may write.
//
// This gate closes the ordering hazard of unconditional full-replace: once
// the full game sheet has been recorded for a game number, a later (stale)
// live pass is skipped instead of downgrading the stored report.
func ShouldReplace(stored, incoming Variant) bool {
	if stored == "" {
		return true
	}
	return completeness[incoming] >= completeness[stored]
}
