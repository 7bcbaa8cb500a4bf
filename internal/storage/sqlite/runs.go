// Package sqlite keeps a local history of classifier runs, so accuracy
// across retraining sessions can be compared after the fact.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS classifier_runs (
	run_id        TEXT PRIMARY KEY,
	model_id      TEXT NOT NULL,
	operation     TEXT NOT NULL,
	sample_count  INTEGER NOT NULL,
	correct_count INTEGER NOT NULL,
	ratio         REAL NOT NULL,
	duration_ms   INTEGER NOT NULL,
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_classifier_runs_model ON classifier_runs(model_id, created_at);
`

// Run is one persisted classifier operation outcome.
type Run struct {
	RunID        string  `json:"run_id"`
	ModelID      string  `json:"model_id"`
	Operation    string  `json:"operation"`
	SampleCount  int     `json:"sample_count"`
	CorrectCount int     `json:"correct_count"`
	Ratio        float64 `json:"ratio"`
	DurationMS   int64   `json:"duration_ms"`
	CreatedAt    int64   `json:"created_at"`
}

// RunStore provides persistence for classifier run results.
type RunStore struct {
	db *sql.DB
}

// Open opens (or creates) the run database at the given path and applies
// the schema.
func Open(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open run store '%s': %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not apply run store schema: %w", err)
	}
	return &RunStore{db: db}, nil
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Insert persists a run. An empty RunID gets a generated UUID, a zero
// CreatedAt the current time.
func (s *RunStore) Insert(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO classifier_runs (
			run_id, model_id, operation, sample_count, correct_count,
			ratio, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.ModelID, run.Operation, run.SampleCount, run.CorrectCount,
		run.Ratio, run.DurationMS, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListByModel returns all runs for a model, newest first.
func (s *RunStore) ListByModel(modelID string) ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, model_id, operation, sample_count, correct_count,
		       ratio, duration_ms, created_at
		FROM classifier_runs
		WHERE model_id = ?
		ORDER BY created_at DESC`, modelID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(
			&run.RunID, &run.ModelID, &run.Operation, &run.SampleCount, &run.CorrectCount,
			&run.Ratio, &run.DurationMS, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
