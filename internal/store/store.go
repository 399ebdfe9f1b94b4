package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"

	"github.com/alhockeyfans/report-sync/internal/report"
)

// connectTimeout bounds the initial ping retry loop.
const connectTimeout = 30 * time.Second

// ScheduleRow is one game from the externally-owned schedule table. GameNo
// is the natural key that joins the schedule to report documents.
type ScheduleRow struct {
	ID         int64
	GameNo     int
	MatchAt    time.Time
	HomeTeamID int
	AwayTeamID int
}

// Store wraps a Postgres connection and provides the schedule reads and
// report/score writes the sync job needs.
type Store struct {
	DB *sql.DB
}

// NewStore opens a Postgres connection using the given connection string
// and verifies it with a ping, retrying with exponential backoff so a
// briefly unavailable database does not fail the whole run at startup.
func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	ping := func() error { return db.PingContext(ctx) }
	if err := backoff.Retry(ping, backoff.WithContext(backoff.NewExponentialBackOff(), ctx)); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{DB: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// InProgressGames returns the schedule rows whose start time lies within
// (from, to], in start order. These are the games that may have a live or
// freshly published report worth extracting.
func (s *Store) InProgressGames(ctx context.Context, from, to time.Time) ([]ScheduleRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, game_no, match_at, home_team_id, away_team_id
		FROM alih_schedule
		WHERE match_at > $1 AND match_at <= $2
		ORDER BY match_at, game_no`, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var games []ScheduleRow
	for rows.Next() {
		var g ScheduleRow
		if err := rows.Scan(&g.ID, &g.GameNo, &g.MatchAt, &g.HomeTeamID, &g.AwayTeamID); err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading schedule rows: %w", err)
	}
	return games, nil
}

// UpsertReport stores one game's report document with a full-replace upsert
// keyed by game number. The write is skipped (written=false, no error) when
// the stored report outranks the incoming variant, so a stale live pass can
// never overwrite a recorded full sheet.
func (s *Store) UpsertReport(ctx context.Context, r *report.GameReport) (written bool, err error) {
	doc, err := json.Marshal(r)
	if err != nil {
		return false, fmt.Errorf("encoding report: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var stored report.Variant
	err = tx.QueryRowContext(ctx,
		`SELECT variant FROM alih_game_reports WHERE game_no = $1 FOR UPDATE`,
		r.GameNo).Scan(&stored)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("reading stored variant: %w", err)
	}

	if !report.ShouldReplace(stored, r.Variant) {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO alih_game_reports (game_no, variant, report, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (game_no) DO UPDATE
		SET variant = EXCLUDED.variant, report = EXCLUDED.report, updated_at = now()`,
		r.GameNo, string(r.Variant), doc)
	if err != nil {
		return false, fmt.Errorf("upserting report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing report upsert: %w", err)
	}
	return true, nil
}

// UpdateScore writes both score columns of one schedule row. Callers must
// only invoke this with a fully defined score; an undefined score skips the
// write entirely so previously stored values stay untouched.
func (s *Store) UpdateScore(ctx context.Context, scheduleID int64, score report.StatPair) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE alih_schedule
		SET home_score = $1, away_score = $2
		WHERE id = $3`, score.Home, score.Away, scheduleID)
	if err != nil {
		return fmt.Errorf("updating schedule score: %w", err)
	}
	return nil
}
