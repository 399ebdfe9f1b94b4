package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alhockeyfans/report-sync/internal/job"
	"github.com/alhockeyfans/report-sync/internal/logger"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the run summary in the specified format
func WriteOutput(w io.Writer, summary *job.Summary, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary, verbose)
	case FormatText:
		return writeText(w, summary, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON, with metrics attached in verbose
// mode.
func writeJSON(w io.Writer, summary *job.Summary, verbose bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if !verbose {
		return encoder.Encode(summary)
	}
	return encoder.Encode(map[string]interface{}{
		"summary": summary,
		"metrics": logger.GetMetricsSnapshot(),
	})
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, summary *job.Summary, verbose bool) error {
	fmt.Fprintf(w, "Run %s (%s): %d games, %d succeeded, %d failed in %s\n",
		summary.RunID, summary.Variant, len(summary.Results),
		summary.Succeeded, summary.Failed, summary.Duration.Round(time.Millisecond))

	for _, res := range summary.Results {
		if res.Status == job.StatusFailed {
			fmt.Fprintf(w, "  FAILED game %d: %s\n", res.GameNo, res.Error)
			continue
		}
		detail := "no writes"
		switch {
		case res.ReportWritten && res.ScoreWritten:
			detail = "report and score written"
		case res.ReportWritten:
			detail = "report written"
		}
		fmt.Fprintf(w, "  OK     game %d (%s)\n", res.GameNo, detail)
	}

	if verbose {
		metrics, err := json.MarshalIndent(logger.GetMetricsSnapshot(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
		fmt.Fprintf(w, "\nMetrics:\n%s\n", metrics)
	}
	return nil
}
