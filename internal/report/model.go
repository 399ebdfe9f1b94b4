package report

// Variant identifies which report page an extraction pass was built from.
type Variant string

const (
	// VariantFullSheet is the official game sheet, complete but published
	// only after (or late in) a game.
	VariantFullSheet Variant = "full_sheet"
	// VariantLiveScore is the coarse in-progress page: per-period running
	// scores only, no rosters or event tables.
	VariantLiveScore Variant = "live_score"
)

// StatPair holds one home/away value pair taken from a combined "H : A" cell
// or from two side-by-side team columns.
type StatPair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// PeriodSummary is one row of the game summary table: period1..3, overtime,
// shootout or total. Pointers are nil when the source cell was blank or
// unparseable.
type PeriodSummary struct {
	ScoreText        string    `json:"score,omitempty"` // raw "H : A" cell
	Score            *StatPair `json:"score_pair,omitempty"`
	ShotsOnGoal      *StatPair `json:"shots_on_goal,omitempty"`
	PenaltyMinutes   *StatPair `json:"penalty_minutes,omitempty"`
	PowerPlayGoals   *StatPair `json:"power_play_goals,omitempty"`
	ShortHandedGoals *StatPair `json:"short_handed_goals,omitempty"`
}

// PeriodSummaries groups the per-period rows plus the total row.
type PeriodSummaries struct {
	Period1  PeriodSummary `json:"period1"`
	Period2  PeriodSummary `json:"period2"`
	Period3  PeriodSummary `json:"period3"`
	Overtime PeriodSummary `json:"overtime"`
	Total    PeriodSummary `json:"total"`
}

// RosterEntry is one player line of a team's roster table. Jersey numbers
// are unique within a team for one game. Role is "C", "A" or empty.
type RosterEntry struct {
	No       int    `json:"no"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	SOG      int    `json:"sog"`
	Role     string `json:"role,omitempty"`
	Played   bool   `json:"played"`
}

// GoalEvent is one scored goal. Period is derived from ElapsedTime, never
// read from a cell. Assist numbers are nil when the cell was blank.
type GoalEvent struct {
	Period      int    `json:"period"` // 1..3, 4 = overtime
	ElapsedTime string `json:"elapsed_time"`
	TeamID      int    `json:"team_id"`
	Situation   string `json:"situation,omitempty"` // EQ, PP1, SH1, ...
	ScorerNo    int    `json:"scorer_no"`
	Assist1No   *int   `json:"assist1_no,omitempty"`
	Assist2No   *int   `json:"assist2_no,omitempty"`
}

// PenaltyEvent is one penalty line.
type PenaltyEvent struct {
	Period      int    `json:"period"`
	ElapsedTime string `json:"elapsed_time"`
	TeamID      int    `json:"team_id"`
	PlayerNo    int    `json:"player_no"`
	Minutes     int    `json:"minutes"`
	Offence     string `json:"offence,omitempty"`
}

// GoalkeeperLine is one team's goalkeeper record. Name is resolved by
// joining No against the team roster and stays empty when the roster is
// unavailable (live variant) or the number is unmatched.
type GoalkeeperLine struct {
	No            int    `json:"no"`
	Name          string `json:"name,omitempty"`
	MinutesInPlay string `json:"minutes_in_play,omitempty"`
	GoalsAgainst  int    `json:"goals_against"`
	Saves         int    `json:"saves"`
}

// Officials lists the off-ice supervisor and on-ice crew for a game.
type Officials struct {
	Supervisor string   `json:"supervisor,omitempty"`
	Referees   []string `json:"referees,omitempty"`
	Linesmen   []string `json:"linesmen,omitempty"`
}

// BenchStaff is one team's bench leadership as printed on the sheet footer.
type BenchStaff struct {
	Manager string `json:"manager,omitempty"`
	Coach   string `json:"coach,omitempty"`
}

// Timeouts records the elapsed time at which each team took its timeout.
// Empty string means no timeout taken.
type Timeouts struct {
	Home string `json:"home,omitempty"`
	Away string `json:"away,omitempty"`
}

// TeamSheet groups the per-team sections of a report.
type TeamSheet struct {
	TeamID      int              `json:"team_id"`
	Roster      []RosterEntry    `json:"roster,omitempty"`
	Goalkeepers []GoalkeeperLine `json:"goalkeepers,omitempty"`
	Staff       BenchStaff       `json:"staff"`
}

// GameReport is the unit of extraction output for one game, keyed by the
// league-assigned game number. It is rebuilt wholesale on every pass; there
// is no field-by-field merge with a previously stored report.
type GameReport struct {
	GameNo     int             `json:"game_no"`
	Variant    Variant         `json:"variant"`
	Venue      string          `json:"venue,omitempty"`
	Spectators *int            `json:"spectators,omitempty"`
	StartTime  string          `json:"start_time,omitempty"`
	EndTime    string          `json:"end_time,omitempty"`
	Timeouts   Timeouts        `json:"timeouts"`
	Officials  Officials       `json:"officials"`
	Periods    PeriodSummaries `json:"periods"`
	Home       TeamSheet       `json:"home"`
	Away       TeamSheet       `json:"away"`
	Goals      []GoalEvent     `json:"goals,omitempty"`
	Penalties  []PenaltyEvent  `json:"penalties,omitempty"`
}

// FinalScore returns the game's aggregate score, or nil when it cannot be
// determined from the report. For the full sheet that is the total row of
// the summary table; a malformed total cell yields nil and the caller must
// skip the schedule score write rather than record zeros.
func (r *GameReport) FinalScore() *StatPair {
	return r.Periods.Total.Score
}
