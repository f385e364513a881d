package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a trace id does not exist in the archive.
var ErrNotFound = errors.New("trace not found")

// TraceSummary is one row of the archive listing.
type TraceSummary struct {
	ID          string   `json:"id"`
	Source      string   `json:"source,omitempty"`
	Description string   `json:"description,omitempty"`
	Format      string   `json:"format,omitempty"`
	Vars        []string `json:"vars"`
	StateCount  int      `json:"state_count"`
	LoopIndex   *int     `json:"loop_index,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

// ListTraces returns archived traces, newest first.
func (s *Store) ListTraces(ctx context.Context) ([]TraceSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, description, format, vars, loop_index, state_count, created_at
		FROM traces
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer rows.Close()

	var out []TraceSummary
	for rows.Next() {
		var (
			t         TraceSummary
			varsJSON  string
			loopIndex sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &t.Source, &t.Description, &t.Format, &varsJSON,
			&loopIndex, &t.StateCount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("list traces: %w", err)
		}
		if err := json.Unmarshal([]byte(varsJSON), &t.Vars); err != nil {
			return nil, fmt.Errorf("list traces: vars for %s: %w", t.ID, err)
		}
		if loopIndex.Valid {
			idx := int(loopIndex.Int64)
			t.LoopIndex = &idx
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTraceBody returns the canonical ITF JSON of an archived trace.
func (s *Store) GetTraceBody(ctx context.Context, id string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM traces WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get trace %s: %w", id, err)
	}
	return []byte(body), nil
}

// CountStates returns the number of state rows stored for a trace.
func (s *Store) CountStates(ctx context.Context, id string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM states WHERE trace_id = ?`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count states for %s: %w", id, err)
	}
	return n, nil
}
