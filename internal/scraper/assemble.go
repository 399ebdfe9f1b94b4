package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/alhockeyfans/report-sync/internal/report"
)

// Extract locates the regions for the given variant and assembles the full
// typed report. Assembly itself is total: given a valid region map it always
// produces a report, possibly with many optional fields unset; the only
// failure mode is the locator error for a mandatory anchor.
func Extract(doc *goquery.Document, variant report.Variant, gameNo, homeTeamID, awayTeamID int) (*report.GameReport, error) {
	regions, err := Locate(doc, variant)
	if err != nil {
		return nil, err
	}
	if variant == report.VariantLiveScore {
		return assembleLiveScore(regions, gameNo, homeTeamID, awayTeamID), nil
	}
	return assembleFullSheet(regions, gameNo, homeTeamID, awayTeamID), nil
}

func assembleFullSheet(regions *Regions, gameNo, homeTeamID, awayTeamID int) *report.GameReport {
	r := &report.GameReport{
		GameNo:  gameNo,
		Variant: report.VariantFullSheet,
		Home:    report.TeamSheet{TeamID: homeTeamID},
		Away:    report.TeamSheet{TeamID: awayTeamID},
	}

	r.Venue, r.Spectators, r.StartTime, r.EndTime = extractHeader(regions.Get(AnchorHeader))
	r.Periods = extractSummary(regions.Get(AnchorSummary))
	r.Periods.RecomputeTotal()

	if regions.Has(AnchorOfficials) {
		r.Officials = extractOfficials(regions.Get(AnchorOfficials))
	}

	r.Home.Roster = extractRoster(regions.Get(AnchorHomeRoster))
	r.Away.Roster = extractRoster(regions.Get(AnchorAwayRoster))

	if regions.Has(AnchorHomeGoals) {
		r.Goals = append(r.Goals, extractGoals(regions.Get(AnchorHomeGoals), homeTeamID)...)
	}
	if regions.Has(AnchorAwayGoals) {
		r.Goals = append(r.Goals, extractGoals(regions.Get(AnchorAwayGoals), awayTeamID)...)
	}
	if regions.Has(AnchorHomePenalties) {
		r.Penalties = append(r.Penalties, extractPenalties(regions.Get(AnchorHomePenalties), homeTeamID)...)
	}
	if regions.Has(AnchorAwayPenalties) {
		r.Penalties = append(r.Penalties, extractPenalties(regions.Get(AnchorAwayPenalties), awayTeamID)...)
	}

	if regions.Has(AnchorHomeGoalkeepers) {
		r.Home.Goalkeepers = extractGoalkeepers(regions.Get(AnchorHomeGoalkeepers))
		report.ResolveGoalkeepers(r.Home.Goalkeepers, r.Home.Roster)
	}
	if regions.Has(AnchorAwayGoalkeepers) {
		r.Away.Goalkeepers = extractGoalkeepers(regions.Get(AnchorAwayGoalkeepers))
		report.ResolveGoalkeepers(r.Away.Goalkeepers, r.Away.Roster)
	}

	if regions.Has(AnchorHomeStaff) {
		r.Home.Staff, r.Timeouts.Home = extractStaff(regions.Get(AnchorHomeStaff))
	}
	if regions.Has(AnchorAwayStaff) {
		r.Away.Staff, r.Timeouts.Away = extractStaff(regions.Get(AnchorAwayStaff))
	}

	return r
}

func assembleLiveScore(regions *Regions, gameNo, homeTeamID, awayTeamID int) *report.GameReport {
	r := &report.GameReport{
		GameNo:  gameNo,
		Variant: report.VariantLiveScore,
		Home:    report.TeamSheet{TeamID: homeTeamID},
		Away:    report.TeamSheet{TeamID: awayTeamID},
	}

	r.Periods = extractLiveScore(regions.Get(AnchorLiveScore))

	if regions.Has(AnchorLiveGoalkeepers) {
		// No roster on the live page, so goalkeeper names stay empty.
		r.Home.Goalkeepers, r.Away.Goalkeepers = extractLiveGoalkeepers(regions.Get(AnchorLiveGoalkeepers))
	}

	return r
}
