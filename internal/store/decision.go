package store

import (
	"database/sql"
	"time"
)

// Decision is the fan speed chosen for one frame of a run.
type Decision struct {
	ID          int64
	RunID       string
	FrameIndex  int
	PersonCount int
	FanSpeed    string
	Activity    float64
	CreatedAt   time.Time
}

// DecisionRepository provides operations on per-frame decisions.
type DecisionRepository struct {
	db *sql.DB
}

// Decisions returns the decision repository for this store.
func (s *Store) Decisions() *DecisionRepository {
	return &DecisionRepository{db: s.db}
}

// Create inserts a decision and sets its ID.
func (r *DecisionRepository) Create(d *Decision) error {
	d.CreatedAt = time.Now()

	result, err := r.db.Exec(
		`INSERT INTO decisions (run_id, frame_index, person_count, fan_speed, activity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.RunID, d.FrameIndex, d.PersonCount, d.FanSpeed, d.Activity, d.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = id

	return nil
}

// ListByRun retrieves the decisions of a run in frame order.
func (r *DecisionRepository) ListByRun(runID string) ([]Decision, error) {
	rows, err := r.db.Query(
		`SELECT id, run_id, frame_index, person_count, fan_speed, activity, created_at
		 FROM decisions
		 WHERE run_id = ?
		 ORDER BY frame_index`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.ID, &d.RunID, &d.FrameIndex, &d.PersonCount, &d.FanSpeed, &d.Activity, &d.CreatedAt); err != nil {
			return nil, err
		}
		decisions = append(decisions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return decisions, nil
}

// CountBySpeed returns how many frames of a run were spent at each fan speed.
// Speeds never chosen are absent from the map.
func (r *DecisionRepository) CountBySpeed(runID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT fan_speed, COUNT(*) FROM decisions WHERE run_id = ? GROUP BY fan_speed`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var speed string
		var n int
		if err := rows.Scan(&speed, &n); err != nil {
			return nil, err
		}
		counts[speed] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
