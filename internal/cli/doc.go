// Package cli implements the command-line interface for report-sync.
//
// The cli package provides the Cobra-based CLI that an external scheduler
// invokes once per tick. It wires configuration (flags, environment,
// optional .env file) into the store, fetcher and job runner, writes the
// run summary as text or JSON, and optionally forwards it to Slack.
package cli
