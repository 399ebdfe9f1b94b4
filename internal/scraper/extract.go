package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alhockeyfans/report-sync/internal/report"
)

// Fixed column layouts per table kind. Header rows above the data are
// skipped per extractor; a row whose cell count does not match, or whose key
// field does not parse, is discarded rather than treated as an error.
const (
	rosterHeaderRows = 1 // column header
	rosterColumns    = 5 // No | Pos | Name | SOG | GP

	goalHeaderRows = 2 // title + column header
	goalColumns    = 5 // Time | Sit | Goal | A1 | A2

	penaltyHeaderRows = 2 // title + column header
	penaltyColumns    = 4 // Time | No | Min | Offence

	goalkeeperHeaderRows = 2 // title + column header
	goalkeeperColumns    = 4 // No | MIP | GA | SVS

	liveGoalkeeperHeaderRows = 2 // title + column header
	liveGoalkeeperColumns    = 5 // Side | No | MIP | GA | SVS

	summaryColumns = 6 // Label | Score | SOG | PIM | PPG | SHG
)

// extractRoster reads one team's roster table. The GP cell carries a mark
// when the player iced; blank means scratched.
func extractRoster(table *goquery.Selection) []report.RosterEntry {
	var roster []report.RosterEntry
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i < rosterHeaderRows {
			return
		}
		cells := rowCells(tr)
		if len(cells) != rosterColumns {
			return
		}
		no, err := strconv.Atoi(cells[0])
		if err != nil {
			return
		}
		name, role := report.SplitNameRole(cells[2])
		roster = append(roster, report.RosterEntry{
			No:       no,
			Position: cells[1],
			Name:     name,
			Role:     role,
			SOG:      parseCount(cells[3]),
			Played:   cells[4] != "",
		})
	})
	return roster
}

// extractGoals reads one team's goal table. The period is derived from the
// elapsed time; a blank or placeholder time drops the row instead of
// fabricating a goal at time zero.
func extractGoals(table *goquery.Selection, teamID int) []report.GoalEvent {
	var goals []report.GoalEvent
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i < goalHeaderRows {
			return
		}
		cells := rowCells(tr)
		if len(cells) != goalColumns {
			return
		}
		period, ok := report.PeriodOf(cells[0])
		if !ok {
			return
		}
		scorerNo, err := strconv.Atoi(cells[2])
		if err != nil {
			return
		}
		goals = append(goals, report.GoalEvent{
			Period:      period,
			ElapsedTime: cells[0],
			TeamID:      teamID,
			Situation:   cells[1],
			ScorerNo:    scorerNo,
			Assist1No:   parseOptionalNo(cells[3]),
			Assist2No:   parseOptionalNo(cells[4]),
		})
	})
	return goals
}

// extractPenalties reads one team's penalty table.
func extractPenalties(table *goquery.Selection, teamID int) []report.PenaltyEvent {
	var penalties []report.PenaltyEvent
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i < penaltyHeaderRows {
			return
		}
		cells := rowCells(tr)
		if len(cells) != penaltyColumns {
			return
		}
		period, ok := report.PeriodOf(cells[0])
		if !ok {
			return
		}
		playerNo, err := strconv.Atoi(cells[1])
		if err != nil {
			return
		}
		penalties = append(penalties, report.PenaltyEvent{
			Period:      period,
			ElapsedTime: cells[0],
			TeamID:      teamID,
			PlayerNo:    playerNo,
			Minutes:     parseCount(cells[2]),
			Offence:     cells[3],
		})
	})
	return penalties
}

// extractGoalkeepers reads one team's goalkeeper records table. Names are
// resolved later against the roster.
func extractGoalkeepers(table *goquery.Selection) []report.GoalkeeperLine {
	var lines []report.GoalkeeperLine
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i < goalkeeperHeaderRows {
			return
		}
		cells := rowCells(tr)
		if len(cells) != goalkeeperColumns {
			return
		}
		no, err := strconv.Atoi(cells[0])
		if err != nil {
			return
		}
		lines = append(lines, report.GoalkeeperLine{
			No:            no,
			MinutesInPlay: cells[1],
			GoalsAgainst:  parseCount(cells[2]),
			Saves:         parseCount(cells[3]),
		})
	})
	return lines
}

// extractSummary reads the game summary table. Rows are identified by their
// label cell (1st, 2nd, 3rd, OT, Total), not by position, so a missing
// overtime row cannot shift the total into the wrong slot.
func extractSummary(table *goquery.Selection) report.PeriodSummaries {
	var s report.PeriodSummaries
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := rowCells(tr)
		if len(cells) != summaryColumns {
			return
		}
		row := report.PeriodSummary{
			ScoreText:        cells[1],
			Score:            report.ParseScorePair(cells[1]),
			ShotsOnGoal:      report.ParseScorePair(cells[2]),
			PenaltyMinutes:   report.ParseScorePair(cells[3]),
			PowerPlayGoals:   report.ParseScorePair(cells[4]),
			ShortHandedGoals: report.ParseScorePair(cells[5]),
		}
		switch cells[0] {
		case "1st":
			s.Period1 = row
		case "2nd":
			s.Period2 = row
		case "3rd":
			s.Period3 = row
		case "OT":
			s.Overtime = row
		case "Total":
			s.Total = row
		}
	})
	return s
}

// extractHeader reads the labelled header cells: venue, spectator count and
// start/end times. Each value sits exactly one cell after its label.
func extractHeader(region *goquery.Selection) (venue string, spectators *int, start, end string) {
	venue = labelledValue(region, "Venue")
	if n, err := strconv.Atoi(strings.ReplaceAll(labelledValue(region, "Spectators"), ",", "")); err == nil {
		spectators = &n
	}
	start = labelledValue(region, "Start Time")
	end = labelledValue(region, "End Time")
	return venue, spectators, start, end
}

// extractStaff reads a team footer: bench staff plus the timeout mark.
func extractStaff(region *goquery.Selection) (report.BenchStaff, string) {
	staff := report.BenchStaff{
		Manager: labelledValue(region, "Manager"),
		Coach:   labelledValue(region, "Coach"),
	}
	return staff, labelledValue(region, "Timeout")
}

// extractOfficials reads the officials block: one supervisor, two referees,
// two linesmen. Fewer names than expected degrade to a shorter list.
func extractOfficials(region *goquery.Selection) report.Officials {
	return report.Officials{
		Supervisor: labelledValue(region, "Supervisor"),
		Referees:   labelledRow(region, "Referee"),
		Linesmen:   labelledRow(region, "Linesman"),
	}
}

// extractLiveScore reads the live page's running-score grid. The header row
// is found by its "1st" token; the home and away rows are the two rows
// immediately after it. Column order is positional past the team cell:
// period 1, 2, 3, overtime, shootout. The page has no labelled total, so the
// aggregate is the sum over all five columns with blank columns counting as
// zero; an approximation tolerated only for the in-progress snapshot.
func extractLiveScore(table *goquery.Selection) report.PeriodSummaries {
	rows := table.Find("tr")
	headerIdx := -1
	rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
		found := false
		tr.Children().Each(func(_ int, cell *goquery.Selection) {
			if strings.TrimSpace(cell.Text()) == "1st" {
				found = true
			}
		})
		if found {
			headerIdx = i
			return false
		}
		return true
	})

	var s report.PeriodSummaries
	if headerIdx < 0 || rows.Length() < headerIdx+3 {
		return s
	}
	home := rowCells(rows.Eq(headerIdx + 1))
	away := rowCells(rows.Eq(headerIdx + 2))

	pairs := make([]*report.StatPair, 5)
	for col := 0; col < 5; col++ {
		pairs[col] = livePair(home, away, col+1)
	}
	s.Period1 = report.PeriodSummary{Score: pairs[0]}
	s.Period2 = report.PeriodSummary{Score: pairs[1]}
	s.Period3 = report.PeriodSummary{Score: pairs[2]}
	s.Overtime = report.PeriodSummary{Score: pairs[3]}

	sum := report.SumPairs(pairs...)
	s.Total = report.PeriodSummary{
		ScoreText: report.FormatScorePair(sum),
		Score:     &sum,
	}
	return s
}

// extractLiveGoalkeepers reads the live page's goalkeeper rows, split by the
// leading side marker. No roster exists on this page, so names stay empty.
func extractLiveGoalkeepers(table *goquery.Selection) (home, away []report.GoalkeeperLine) {
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i < liveGoalkeeperHeaderRows {
			return
		}
		cells := rowCells(tr)
		if len(cells) != liveGoalkeeperColumns {
			return
		}
		no, err := strconv.Atoi(cells[1])
		if err != nil {
			return
		}
		line := report.GoalkeeperLine{
			No:            no,
			MinutesInPlay: cells[2],
			GoalsAgainst:  parseCount(cells[3]),
			Saves:         parseCount(cells[4]),
		}
		switch strings.ToUpper(cells[0]) {
		case "HOME":
			home = append(home, line)
		case "AWAY":
			away = append(away, line)
		}
	})
	return home, away
}

// livePair builds the pair for one live-score column. Both cells blank means
// the period has not been reached; otherwise unparseable cells count as 0.
func livePair(home, away []string, col int) *report.StatPair {
	h, a := "", ""
	if col < len(home) {
		h = home[col]
	}
	if col < len(away) {
		a = away[col]
	}
	if h == "" && a == "" {
		return nil
	}
	return &report.StatPair{Home: parseCount(h), Away: parseCount(a)}
}

// rowCells returns the trimmed text of a row's direct cell children. Text is
// always a string, never absent: a blank cell reads as "".
func rowCells(tr *goquery.Selection) []string {
	var cells []string
	tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

// labelledValue returns the text of the cell immediately following the cell
// whose trimmed text equals label, or "" when the label is absent.
func labelledValue(scope *goquery.Selection, label string) string {
	var value string
	scope.Find("th, td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if strings.TrimSpace(cell.Text()) != label {
			return true
		}
		value = strings.TrimSpace(cell.Next().Text())
		return false
	})
	return value
}

// labelledRow returns the non-empty texts of all cells following the label
// cell within its row.
func labelledRow(scope *goquery.Selection, label string) []string {
	var values []string
	scope.Find("th, td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if strings.TrimSpace(cell.Text()) != label {
			return true
		}
		for next := cell.Next(); next.Length() > 0; next = next.Next() {
			if text := strings.TrimSpace(next.Text()); text != "" {
				values = append(values, text)
			}
		}
		return false
	})
	return values
}

// parseCount parses a count-like cell (shots, penalty minutes, goals
// against). Blank or unparseable defaults to 0, never an error.
func parseCount(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

// parseOptionalNo parses an identity-like cell (assist jersey numbers).
// Blank or unparseable yields nil, never 0: number zero would point at a
// player that does not exist.
func parseOptionalNo(text string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &n
}
