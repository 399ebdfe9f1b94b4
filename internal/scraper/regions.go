package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alhockeyfans/report-sync/internal/report"
)

// Anchor names a located region of a report page.
type Anchor string

const (
	AnchorHeader    Anchor = "header"
	AnchorSummary   Anchor = "summary"
	AnchorOfficials Anchor = "officials"

	AnchorHomeTeam        Anchor = "home_team"
	AnchorHomeRoster      Anchor = "home_roster"
	AnchorHomeGoals       Anchor = "home_goals"
	AnchorHomePenalties   Anchor = "home_penalties"
	AnchorHomeGoalkeepers Anchor = "home_goalkeepers"
	AnchorHomeStaff       Anchor = "home_staff"

	AnchorAwayTeam        Anchor = "away_team"
	AnchorAwayRoster      Anchor = "away_roster"
	AnchorAwayGoals       Anchor = "away_goals"
	AnchorAwayPenalties   Anchor = "away_penalties"
	AnchorAwayGoalkeepers Anchor = "away_goalkeepers"
	AnchorAwayStaff       Anchor = "away_staff"

	AnchorLiveScore       Anchor = "live_score"
	AnchorLiveGoalkeepers Anchor = "live_goalkeepers"
)

// fullSheetRequired is the mandatory anchor set for the game sheet. The
// remaining sections (officials, per-team event tables, staff footers)
// degrade to absent data when missing.
var fullSheetRequired = []Anchor{
	AnchorHeader,
	AnchorSummary,
	AnchorHomeTeam,
	AnchorHomeRoster,
	AnchorAwayTeam,
	AnchorAwayRoster,
}

// liveScoreRequired is the much smaller mandatory set for the live page.
var liveScoreRequired = []Anchor{
	AnchorLiveScore,
}

// RegionError reports the anchors that could not be located in a document
// whose variant requires them.
type RegionError struct {
	Variant report.Variant
	Missing []Anchor
}

func (e *RegionError) Error() string {
	names := make([]string, len(e.Missing))
	for i, a := range e.Missing {
		names[i] = string(a)
	}
	return fmt.Sprintf("region not found (%s): %s", e.Variant, strings.Join(names, ", "))
}

// Regions is the fixed map of named anchors located in one document.
type Regions struct {
	variant report.Variant
	anchors map[Anchor]*goquery.Selection
}

// Get returns the located region for an anchor, or nil when the (optional)
// anchor was absent from the document.
func (r *Regions) Get(a Anchor) *goquery.Selection {
	return r.anchors[a]
}

// Has reports whether an anchor was located.
func (r *Regions) Has(a Anchor) bool {
	return r.anchors[a] != nil
}

// Locate finds all named anchors for the given report variant. Anchors are
// found by exact-matching a distinctive text token inside a cell and taking
// the nearest enclosing table, because absolute row and column indices shift
// when a section is empty. Returns a RegionError listing every mandatory
// anchor that is absent.
func Locate(doc *goquery.Document, variant report.Variant) (*Regions, error) {
	r := &Regions{
		variant: variant,
		anchors: make(map[Anchor]*goquery.Selection),
	}

	add := func(a Anchor, sel *goquery.Selection) {
		if sel != nil && sel.Length() > 0 {
			r.anchors[a] = sel
		}
	}

	switch variant {
	case report.VariantLiveScore:
		// The running-score grid is the one table with a "1st" period
		// column header.
		add(AnchorLiveScore, tableWithToken(doc.Selection, "1st"))
		add(AnchorLiveGoalkeepers, tableWithToken(doc.Selection, "Goalkeeper"))

	default:
		add(AnchorHeader, tableWithToken(doc.Selection, "Venue"))
		add(AnchorSummary, tableWithToken(doc.Selection, "Game Summary"))
		add(AnchorOfficials, tableWithToken(doc.Selection, "Game Officials"))

		locateTeamSection(r, doc, "Home Team", AnchorHomeTeam, AnchorHomeRoster,
			AnchorHomeGoals, AnchorHomePenalties, AnchorHomeGoalkeepers, AnchorHomeStaff)
		locateTeamSection(r, doc, "Away Team", AnchorAwayTeam, AnchorAwayRoster,
			AnchorAwayGoals, AnchorAwayPenalties, AnchorAwayGoalkeepers, AnchorAwayStaff)
	}

	required := fullSheetRequired
	if variant == report.VariantLiveScore {
		required = liveScoreRequired
	}

	var missing []Anchor
	for _, a := range required {
		if !r.Has(a) {
			missing = append(missing, a)
		}
	}
	if len(missing) > 0 {
		return nil, &RegionError{Variant: variant, Missing: missing}
	}
	return r, nil
}

// locateTeamSection anchors one team's section table (by its title token)
// and the structurally adjacent tables nested inside it: the roster sits
// beside the goal and penalty tables, the goalkeeper and staff footers in
// the following row group. Each inner table is again found by content, not
// position.
func locateTeamSection(r *Regions, doc *goquery.Document, token string,
	section, roster, goals, penalties, goalkeepers, staff Anchor) {
	sec := tableWithToken(doc.Selection, token)
	if sec == nil {
		return
	}
	r.anchors[section] = sec
	if t := tableWithToken(sec, "Pos"); t != nil {
		r.anchors[roster] = t
	}
	if t := tableWithToken(sec, "Goal Records"); t != nil {
		r.anchors[goals] = t
	}
	if t := tableWithToken(sec, "Penalty Records"); t != nil {
		r.anchors[penalties] = t
	}
	if t := tableWithToken(sec, "Goalkeeper Records"); t != nil {
		r.anchors[goalkeepers] = t
	}
	if t := tableWithToken(sec, "Manager"); t != nil {
		r.anchors[staff] = t
	}
}

// tableWithToken returns the nearest enclosing table of the first cell whose
// entire trimmed text equals token. Exact matching keeps an outer cell that
// merely contains the token somewhere in a nested table from shadowing the
// real anchor.
func tableWithToken(scope *goquery.Selection, token string) *goquery.Selection {
	var table *goquery.Selection
	scope.Find("th, td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if strings.TrimSpace(cell.Text()) != token {
			return true
		}
		closest := cell.Closest("table")
		if closest.Length() > 0 {
			table = closest
		}
		return false
	})
	return table
}
