package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alhockeyfans/report-sync/internal/job"
)

const timeout = 10 * time.Second

// SlackNotifier delivers job summaries to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackNotifier creates a notifier for the given webhook URL.
func NewSlackNotifier(webhookURL string) (*SlackNotifier, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type block struct {
	Type string     `json:"type"`
	Text *blockText `json:"text,omitempty"`
}

type blockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NotifyRunSummary posts one run's outcome: overall counts plus a line per
// failed game.
func (n *SlackNotifier) NotifyRunSummary(summary *job.Summary) error {
	blocks := []block{
		{
			Type: "header",
			Text: &blockText{Type: "plain_text", Text: fmt.Sprintf("Report sync (%s)", summary.Variant)},
		},
		{
			Type: "section",
			Text: &blockText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("%d succeeded, %d failed in %s",
					summary.Succeeded, summary.Failed, summary.Duration.Round(time.Millisecond)),
			},
		},
	}

	for _, res := range summary.Results {
		if res.Status != job.StatusFailed {
			continue
		}
		blocks = append(blocks, block{
			Type: "section",
			Text: &blockText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("game %d: `%s`", res.GameNo, res.Error),
			},
		})
	}

	payload := map[string]interface{}{"blocks": blocks}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequest("POST", n.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
