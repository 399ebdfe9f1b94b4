// Package job runs one report sync pass: it derives its own work list from
// the schedule (games whose start lies within a trailing window), extracts
// the configured report variant for each game, and persists the results.
//
// Games are processed through a worker pool whose concurrency limit defaults
// to 1, a deliberate backpressure choice that bounds load on the report site
// and the database. Per-game failures are caught at the per-game boundary
// and reported in the job summary; one game's failure never prevents
// extraction or persistence for the others, and nothing is retried within a
// run — the next scheduled invocation picks up transient failures.
package job
