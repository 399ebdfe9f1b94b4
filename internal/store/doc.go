// Package store provides Postgres persistence for the report sync job.
//
// Two tables are involved. alih_schedule is externally owned: the job reads
// id, game number, team ids and start time, and writes back only the two
// score columns. alih_game_reports is owned here and holds one JSON document
// per game number, written with a full-replace upsert gated by the report
// completeness policy.
package store
