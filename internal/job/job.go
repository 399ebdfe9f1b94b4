package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/alhockeyfans/report-sync/internal/logger"
	"github.com/alhockeyfans/report-sync/internal/report"
	"github.com/alhockeyfans/report-sync/internal/scraper"
	"github.com/alhockeyfans/report-sync/internal/store"
)

const (
	// DefaultWindow is the trailing schedule window: games that started
	// within the last six hours are considered in progress or freshly
	// finished and worth a pass.
	DefaultWindow = 6 * time.Hour
	// DefaultConcurrency processes games strictly sequentially.
	DefaultConcurrency = 1
)

// Status is the per-game outcome of a pass.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// GameResult is one game's outcome within a run.
type GameResult struct {
	GameNo        int    `json:"game_no"`
	ScheduleID    int64  `json:"schedule_id"`
	Status        Status `json:"status"`
	Error         string `json:"error,omitempty"`
	ReportWritten bool   `json:"report_written"`
	ScoreWritten  bool   `json:"score_written"`
}

// Summary is the job's output payload.
type Summary struct {
	RunID     string         `json:"run_id"`
	Variant   report.Variant `json:"variant"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
	Results   []GameResult   `json:"results"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// Store is the persistence surface the job needs: a schedule read, a report
// upsert and a score write. Satisfied by *store.Store.
type Store interface {
	InProgressGames(ctx context.Context, from, to time.Time) ([]store.ScheduleRow, error)
	UpsertReport(ctx context.Context, r *report.GameReport) (bool, error)
	UpdateScore(ctx context.Context, scheduleID int64, score report.StatPair) error
}

// Fetcher retrieves one game's report page. Satisfied by *scraper.Fetcher.
type Fetcher interface {
	FetchDocument(ctx context.Context, variant report.Variant, gameNo int) (*goquery.Document, error)
}

// Runner holds one run's configuration and injected collaborators. The
// store handle is constructed once at process start and passed in; the
// runner itself keeps no state across runs.
type Runner struct {
	Store   Store
	Fetcher Fetcher
	Variant report.Variant

	Window      time.Duration // zero means DefaultWindow
	Concurrency int           // zero means DefaultConcurrency
	DryRun      bool          // extract but skip all writes
}

// Run executes one sync pass. It fails outright only when the work list
// itself cannot be read; every per-game failure is isolated into that
// game's result.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	started := time.Now().UTC()
	window := r.Window
	if window <= 0 {
		window = DefaultWindow
	}
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Variant:   r.Variant,
		StartedAt: started,
	}

	games, err := r.Store.InProgressGames(ctx, started.Add(-window), started)
	if err != nil {
		return nil, fmt.Errorf("listing in-progress games: %w", err)
	}

	logger.Info("starting sync pass", logger.Fields{
		"run_id":  summary.RunID,
		"variant": string(r.Variant),
		"games":   len(games),
	})

	// Results keep schedule order regardless of worker interleaving.
	results := make([]GameResult, len(games))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, game := range games {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, game store.ScheduleRow) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.processGame(ctx, game)
		}(i, game)
	}
	wg.Wait()

	summary.Results = results
	for _, res := range results {
		if res.Status == StatusSuccess {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	summary.Duration = time.Since(started)

	logger.SetGauge("games.succeeded", float64(summary.Succeeded))
	logger.SetGauge("games.failed", float64(summary.Failed))
	logger.Info("sync pass finished", logger.Fields{
		"run_id":    summary.RunID,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"duration":  summary.Duration.String(),
	})

	return summary, nil
}

// processGame runs one game's fetch, extract and persist sequence. All
// failures are converted into a failed result at this boundary.
func (r *Runner) processGame(ctx context.Context, game store.ScheduleRow) GameResult {
	res := GameResult{
		GameNo:     game.GameNo,
		ScheduleID: game.ID,
		Status:     StatusSuccess,
	}
	fail := func(err error) GameResult {
		res.Status = StatusFailed
		res.Error = err.Error()
		logger.IncrCounter("games.failed")
		logger.Error("game pass failed", logger.Fields{
			"game_no": game.GameNo,
			"variant": string(r.Variant),
		}, err)
		return res
	}

	fetchStart := time.Now()
	doc, err := r.Fetcher.FetchDocument(ctx, r.Variant, game.GameNo)
	if err != nil {
		return fail(fmt.Errorf("fetching report: %w", err))
	}
	logger.RecordTiming("fetch", time.Since(fetchStart))

	parseStart := time.Now()
	rep, err := scraper.Extract(doc, r.Variant, game.GameNo, game.HomeTeamID, game.AwayTeamID)
	if err != nil {
		return fail(fmt.Errorf("extracting report: %w", err))
	}
	logger.RecordTiming("parse", time.Since(parseStart))

	if r.DryRun {
		logger.Info("dry run, skipping writes", logger.Fields{
			"game_no": game.GameNo,
			"score":   rep.Periods.Total.ScoreText,
		})
		logger.IncrCounter("games.processed")
		return res
	}

	storeStart := time.Now()
	written, err := r.Store.UpsertReport(ctx, rep)
	if err != nil {
		return fail(fmt.Errorf("storing report: %w", err))
	}
	res.ReportWritten = written

	// The schedule score follows the report: skipped when the score is
	// undefined (malformed total cell) and when the report write itself
	// was gated, so a stale live score cannot clobber a final one.
	if score := rep.FinalScore(); score != nil && written {
		if err := r.Store.UpdateScore(ctx, game.ID, *score); err != nil {
			return fail(fmt.Errorf("updating schedule score: %w", err))
		}
		res.ScoreWritten = true
	}
	logger.RecordTiming("store", time.Since(storeStart))

	logger.IncrCounter("games.processed")
	logger.Info("game pass complete", logger.Fields{
		"game_no":        game.GameNo,
		"variant":        string(r.Variant),
		"report_written": res.ReportWritten,
		"score_written":  res.ScoreWritten,
	})
	return res
}
