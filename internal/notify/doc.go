// Package notify posts run summaries to a Slack incoming webhook.
//
// The notifier is optional operational plumbing: when no webhook URL is
// configured the job simply runs without it. Failures to deliver a summary
// are reported to the caller but never affect the run's outcome.
package notify
