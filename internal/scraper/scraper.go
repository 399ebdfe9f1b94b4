package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/alhockeyfans/report-sync/internal/report"
)

const (
	// FullSheetURLFormat addresses the official game sheet by game number.
	FullSheetURLFormat = "https://www.alhockey.com/popup/47/game/B%d.htm"
	// LiveScoreURLFormat addresses the live score page. The live site keys
	// games by its own identifier, offset from the league game number by
	// LiveGameNoOffset.
	LiveScoreURLFormat = "https://www.alhockey.com/popup/47/live/S%d.htm"
	// LiveGameNoOffset is the fixed numeric offset between the league game
	// number and the live site's identifier for the same game.
	LiveGameNoOffset = 20000

	UserAgent = "report-sync/1.0 (github.com/alhockeyfans/report-sync)"
	Timeout   = 30 * time.Second
)

// Fetcher retrieves report pages and decodes them from Shift-JIS into a
// traversable document tree.
type Fetcher struct {
	client       *http.Client
	fullSheetURL string
	liveScoreURL string
}

// NewFetcher creates a Fetcher against the production report endpoints.
func NewFetcher() *Fetcher {
	return NewFetcherForBase(FullSheetURLFormat, LiveScoreURLFormat)
}

// NewFetcherForBase creates a Fetcher with custom URL formats, each carrying
// one %d verb for the page identifier. Used by tests to point at a local
// server.
func NewFetcherForBase(fullSheetURL, liveScoreURL string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: Timeout,
		},
		fullSheetURL: fullSheetURL,
		liveScoreURL: liveScoreURL,
	}
}

// URL returns the endpoint for one game's page of the given variant.
func (f *Fetcher) URL(variant report.Variant, gameNo int) string {
	if variant == report.VariantLiveScore {
		return fmt.Sprintf(f.liveScoreURL, gameNo+LiveGameNoOffset)
	}
	return fmt.Sprintf(f.fullSheetURL, gameNo)
}

// FetchDocument fetches one game's report page and returns the parsed
// document tree. Any failure here is a transport error: fatal for this
// game's pass, never retried within the run.
func (f *Fetcher) FetchDocument(ctx context.Context, variant report.Variant, gameNo int) (*goquery.Document, error) {
	url := f.URL(variant, gameNo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	// The report site serves Shift-JIS without a charset header.
	decoded := transform.NewReader(resp.Body, japanese.ShiftJIS.NewDecoder())

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
