package database

import (
	"database/sql"
	"fmt"
	"time"
)

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) RunRepository {
	return &runRepository{db: db}
}

// CreateRun inserts a new run in the running state and returns its ID.
func (r *runRepository) CreateRun(startedAt time.Time) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO runs (status, started_at)
		VALUES (?, ?)
	`, RunStatusRunning, startedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	return runID, nil
}

// CompleteRun marks a run successful and stores its counters together
// with the per-committee match counts.
func (r *runRepository) CompleteRun(runID int64, result RunResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE runs
		SET status = ?, total_events = ?, excluded_events = ?, published_feeds = ?, finished_at = ?
		WHERE id = ?
	`, RunStatusSuccess, result.TotalEvents, result.ExcludedEvents, result.PublishedFeeds, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	for _, stat := range result.CommitteeStats {
		_, err = tx.Exec(`
			INSERT INTO committee_stats (run_id, committee, slug, matched_events)
			VALUES (?, ?, ?, ?)
		`, runID, stat.Committee, stat.Slug, stat.MatchedEvents)
		if err != nil {
			return fmt.Errorf("failed to insert committee stats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run result: %w", err)
	}

	return nil
}

// FailRun marks a run failed and records the error text.
func (r *runRepository) FailRun(runID int64, errorMsg string) error {
	_, err := r.db.Exec(`
		UPDATE runs
		SET status = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, RunStatusFailed, errorMsg, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to mark run as failed: %w", err)
	}

	return nil
}

func (r *runRepository) GetLastRun() (*Run, error) {
	return r.getRun(`
		SELECT id, status, error, total_events, excluded_events, published_feeds, started_at, finished_at
		FROM runs
		ORDER BY id DESC
		LIMIT 1
	`)
}

func (r *runRepository) GetLastSuccessfulRun() (*Run, error) {
	return r.getRun(`
		SELECT id, status, error, total_events, excluded_events, published_feeds, started_at, finished_at
		FROM runs
		WHERE status = ?
		ORDER BY id DESC
		LIMIT 1
	`, RunStatusSuccess)
}

func (r *runRepository) getRun(query string, args ...interface{}) (*Run, error) {
	var run Run
	var finishedAt sql.NullTime

	err := r.db.QueryRow(query, args...).Scan(
		&run.ID, &run.Status, &run.Error,
		&run.TotalEvents, &run.ExcludedEvents, &run.PublishedFeeds,
		&run.StartedAt, &finishedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return &run, nil
}

// GetRecentRuns returns the newest runs first, at most limit of them.
func (r *runRepository) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, status, error, total_events, excluded_events, published_feeds, started_at, finished_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var finishedAt sql.NullTime

		err := rows.Scan(
			&run.ID, &run.Status, &run.Error,
			&run.TotalEvents, &run.ExcludedEvents, &run.PublishedFeeds,
			&run.StartedAt, &finishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}

		if finishedAt.Valid {
			run.FinishedAt = &finishedAt.Time
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

func (r *runRepository) GetCommitteeStats(runID int64) ([]CommitteeStat, error) {
	rows, err := r.db.Query(`
		SELECT run_id, committee, slug, matched_events
		FROM committee_stats
		WHERE run_id = ?
		ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get committee stats: %w", err)
	}
	defer rows.Close()

	var stats []CommitteeStat
	for rows.Next() {
		var stat CommitteeStat
		if err := rows.Scan(&stat.RunID, &stat.Committee, &stat.Slug, &stat.MatchedEvents); err != nil {
			return nil, fmt.Errorf("failed to scan committee stat row: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating committee stat rows: %w", err)
	}

	return stats, nil
}
