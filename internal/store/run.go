package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Run outcomes.
const (
	OutcomeRunning   = "running"
	OutcomeEnded     = "ended"
	OutcomeQuit      = "quit"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Run represents one simulation run over a video source.
type Run struct {
	ID        string
	Source    string
	Outcome   string
	Frames    int
	StartedAt time.Time
	EndedAt   *time.Time
}

// RunRepository provides CRUD operations for runs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Create inserts a new running run for source and returns it.
func (r *RunRepository) Create(source string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Source:    source,
		Outcome:   OutcomeRunning,
		StartedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO runs (id, source, outcome, frames, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Outcome, run.Frames, run.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return run, nil
}

// Finish records the end of a run with its frame count and outcome.
func (r *RunRepository) Finish(id string, frames int, outcome string) error {
	result, err := r.db.Exec(
		`UPDATE runs SET frames = ?, outcome = ?, ended_at = ? WHERE id = ?`,
		frames, outcome, time.Now(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	row := r.db.QueryRow(
		`SELECT id, source, outcome, frames, started_at, ended_at FROM runs WHERE id = ?`,
		id,
	)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return run, nil
}

// List retrieves all runs, most recent first.
func (r *RunRepository) List() ([]*Run, error) {
	rows, err := r.db.Query(
		`SELECT id, source, outcome, frames, started_at, ended_at FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var endedAt sql.NullTime

	if err := row.Scan(&run.ID, &run.Source, &run.Outcome, &run.Frames, &run.StartedAt, &endedAt); err != nil {
		return nil, err
	}

	if endedAt.Valid {
		t := endedAt.Time
		run.EndedAt = &t
	}
	return run, nil
}
