package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ RunRepository = (*runRepository)(nil)

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) CreateRun(source string, mode RunMode, startedAt time.Time) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO runs (source, mode, started_at)
		VALUES (?, ?, ?)
	`, source, string(mode), startedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	return id, nil
}

func (r *runRepository) FinishRun(run Run) error {
	finishedAt := time.Now().UTC()
	if run.FinishedAt != nil {
		finishedAt = run.FinishedAt.UTC()
	}

	result, err := r.db.Exec(`
		UPDATE runs
		SET finished_at = ?, total = ?, fetched = ?, reused = ?, failed = ?,
			discarded = ?, errored = ?, saved = ?, save_failed = ?, error = ?
		WHERE id = ?
	`, finishedAt, run.Total, run.Fetched, run.Reused, run.Failed,
		run.Discarded, run.Errored, run.Saved, run.SaveFailed, run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check finished run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %d not found", run.ID)
	}

	return nil
}

func (r *runRepository) GetLatestRun(source string, mode RunMode) (*Run, error) {
	var run Run
	var storedMode string
	var finishedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, source, mode, started_at, finished_at, total, fetched, reused,
			failed, discarded, errored, saved, save_failed, error
		FROM runs
		WHERE source = ? AND mode = ?
		ORDER BY id DESC
		LIMIT 1
	`, source, string(mode)).Scan(&run.ID, &run.Source, &storedMode, &run.StartedAt, &finishedAt,
		&run.Total, &run.Fetched, &run.Reused, &run.Failed, &run.Discarded,
		&run.Errored, &run.Saved, &run.SaveFailed, &run.Error)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	run.Mode = RunMode(storedMode)
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return &run, nil
}

func (r *runRepository) GetRunCount(source string) (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE source = ?`, source).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
