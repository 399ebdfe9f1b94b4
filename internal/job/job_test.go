package job

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alhockeyfans/report-sync/internal/report"
	"github.com/alhockeyfans/report-sync/internal/scraper"
	"github.com/alhockeyfans/report-sync/internal/store"
)

// fakeStore implements the Store interface in memory, applying the same
// completeness gate as the Postgres store.
type fakeStore struct {
	mu       sync.Mutex
	games    []store.ScheduleRow
	reports  map[int]*report.GameReport
	scores   map[int64]report.StatPair
	from, to time.Time
}

func newFakeStore(games ...store.ScheduleRow) *fakeStore {
	return &fakeStore{
		games:   games,
		reports: make(map[int]*report.GameReport),
		scores:  make(map[int64]report.StatPair),
	}
}

func (f *fakeStore) InProgressGames(_ context.Context, from, to time.Time) ([]store.ScheduleRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.from, f.to = from, to
	return f.games, nil
}

func (f *fakeStore) UpsertReport(_ context.Context, r *report.GameReport) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stored report.Variant
	if prev, ok := f.reports[r.GameNo]; ok {
		stored = prev.Variant
	}
	if !report.ShouldReplace(stored, r.Variant) {
		return false, nil
	}
	f.reports[r.GameNo] = r
	return true, nil
}

func (f *fakeStore) UpdateScore(_ context.Context, scheduleID int64, score report.StatPair) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[scheduleID] = score
	return nil
}

// fixtureServer serves the full-sheet and live-score fixtures under the
// production URL shapes, and 404s everything else.
func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	fullSheet, err := os.ReadFile(filepath.Join("..", "scraper", "testdata", "full_sheet.html"))
	if err != nil {
		t.Fatalf("loading full sheet fixture: %v", err)
	}
	inProgress, err := os.ReadFile(filepath.Join("..", "scraper", "testdata", "full_sheet_in_progress.html"))
	if err != nil {
		t.Fatalf("loading in-progress sheet fixture: %v", err)
	}
	liveScore, err := os.ReadFile(filepath.Join("..", "scraper", "testdata", "live_score.html"))
	if err != nil {
		t.Fatalf("loading live score fixture: %v", err)
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch {
		case strings.HasSuffix(req.URL.Path, "/game/B123.htm"):
			w.Write(fullSheet)
		case strings.HasSuffix(req.URL.Path, "/game/B124.htm"):
			w.Write(inProgress)
		case strings.HasSuffix(req.URL.Path, "/live/S20123.htm"):
			w.Write(liveScore)
		default:
			http.NotFound(w, req)
		}
	}))
}

func testFetcher(server *httptest.Server) *scraper.Fetcher {
	return scraper.NewFetcherForBase(
		server.URL+"/game/B%d.htm",
		server.URL+"/live/S%d.htm",
	)
}

func TestRunFullSheetPass(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()

	// One game that started two hours ago, scores not yet recorded.
	st := newFakeStore(store.ScheduleRow{
		ID:         7,
		GameNo:     123,
		MatchAt:    time.Now().UTC().Add(-2 * time.Hour),
		HomeTeamID: 1,
		AwayTeamID: 3,
	})
	runner := &Runner{
		Store:   st,
		Fetcher: testFetcher(server),
		Variant: report.VariantFullSheet,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Succeeded != 1 || summary.Failed != 0 {
		t.Fatalf("summary counts = %d/%d, expected 1/0", summary.Succeeded, summary.Failed)
	}
	res := summary.Results[0]
	if res.GameNo != 123 || res.Status != StatusSuccess {
		t.Fatalf("result = %+v", res)
	}
	if !res.ReportWritten || !res.ScoreWritten {
		t.Errorf("expected both writes, got report=%v score=%v", res.ReportWritten, res.ScoreWritten)
	}

	stored := st.reports[123]
	if stored == nil {
		t.Fatal("report was not upserted")
	}
	if stored.Periods.Total.ScoreText != "3 : 2" {
		t.Errorf("stored total = %q, expected %q", stored.Periods.Total.ScoreText, "3 : 2")
	}
	if score := st.scores[7]; score != (report.StatPair{Home: 3, Away: 2}) {
		t.Errorf("schedule score = %v, expected {3 2}", score)
	}

	// The work list window ends at the run start and trails by the default.
	if got := st.to.Sub(st.from); got != DefaultWindow {
		t.Errorf("window = %v, expected %v", got, DefaultWindow)
	}
}

func TestRunIsolatesPerGameFailures(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()

	st := newFakeStore(
		store.ScheduleRow{ID: 7, GameNo: 123, HomeTeamID: 1, AwayTeamID: 3},
		// No document exists for this game; its fetch 404s.
		store.ScheduleRow{ID: 8, GameNo: 999, HomeTeamID: 2, AwayTeamID: 4},
	)
	runner := &Runner{
		Store:   st,
		Fetcher: testFetcher(server),
		Variant: report.VariantFullSheet,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(summary.Results) != 2 {
		t.Fatalf("expected both games processed, got %d results", len(summary.Results))
	}
	if summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("summary counts = %d/%d, expected 1/1", summary.Succeeded, summary.Failed)
	}

	healthy, broken := summary.Results[0], summary.Results[1]
	if healthy.Status != StatusSuccess {
		t.Errorf("healthy game result = %+v", healthy)
	}
	if broken.Status != StatusFailed || broken.Error == "" {
		t.Errorf("broken game result = %+v", broken)
	}
	if !strings.Contains(broken.Error, "fetching report") {
		t.Errorf("broken game error = %q", broken.Error)
	}
	if st.reports[123] == nil {
		t.Error("healthy game's report should still be persisted")
	}
}

func TestRunSkipsScoreWhenTotalUndefined(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()

	// A sheet published mid-game: the total cell reads "- : -" and two
	// periods have no score yet, so the total cannot be recomputed either.
	st := newFakeStore(store.ScheduleRow{ID: 9, GameNo: 124, HomeTeamID: 3, AwayTeamID: 5})
	st.scores[9] = report.StatPair{Home: 1, Away: 0}

	runner := &Runner{
		Store:   st,
		Fetcher: testFetcher(server),
		Variant: report.VariantFullSheet,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	res := summary.Results[0]
	if res.Status != StatusSuccess {
		t.Fatalf("pass should succeed, got %+v", res)
	}
	if !res.ReportWritten {
		t.Error("partial sheet should still be upserted")
	}
	if res.ScoreWritten {
		t.Error("undefined total must not be written as a score")
	}

	stored := st.reports[124]
	if stored == nil {
		t.Fatal("report was not upserted")
	}
	if stored.FinalScore() != nil {
		t.Errorf("final score = %v, expected undefined", stored.FinalScore())
	}
	// The previously recorded running score stays as it was.
	if st.scores[9] != (report.StatPair{Home: 1, Away: 0}) {
		t.Errorf("stored score was clobbered: %v", st.scores[9])
	}
}

func TestRunLivePassGatedByFullReport(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()

	st := newFakeStore(store.ScheduleRow{ID: 7, GameNo: 123, HomeTeamID: 1, AwayTeamID: 3})
	// The full sheet was already recorded; schedule shows its final score.
	st.reports[123] = &report.GameReport{GameNo: 123, Variant: report.VariantFullSheet}
	st.scores[7] = report.StatPair{Home: 3, Away: 2}

	runner := &Runner{
		Store:   st,
		Fetcher: testFetcher(server),
		Variant: report.VariantLiveScore,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	res := summary.Results[0]
	if res.Status != StatusSuccess {
		t.Fatalf("gated pass should still succeed, got %+v", res)
	}
	if res.ReportWritten || res.ScoreWritten {
		t.Errorf("stale live pass wrote state: %+v", res)
	}
	if st.reports[123].Variant != report.VariantFullSheet {
		t.Error("stored full report was replaced by a live one")
	}
	if st.scores[7] != (report.StatPair{Home: 3, Away: 2}) {
		t.Errorf("final score was clobbered: %v", st.scores[7])
	}
}

func TestRunLivePass(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()

	st := newFakeStore(store.ScheduleRow{ID: 7, GameNo: 123, HomeTeamID: 1, AwayTeamID: 3})
	runner := &Runner{
		Store:   st,
		Fetcher: testFetcher(server),
		Variant: report.VariantLiveScore,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	stored := st.reports[123]
	if stored == nil || stored.Variant != report.VariantLiveScore {
		t.Fatalf("stored live report = %+v", stored)
	}
	// Running score from the live grid: 1-0, 0-1, 2-0.
	if score := st.scores[7]; score != (report.StatPair{Home: 3, Away: 1}) {
		t.Errorf("running score = %v, expected {3 1}", score)
	}
}

func TestRunDryRun(t *testing.T) {
	server := fixtureServer(t)
	defer server.Close()

	st := newFakeStore(store.ScheduleRow{ID: 7, GameNo: 123, HomeTeamID: 1, AwayTeamID: 3})
	runner := &Runner{
		Store:   st,
		Fetcher: testFetcher(server),
		Variant: report.VariantFullSheet,
		DryRun:  true,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(st.reports) != 0 || len(st.scores) != 0 {
		t.Errorf("dry run persisted state: %d reports, %d scores", len(st.reports), len(st.scores))
	}
}
