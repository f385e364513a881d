package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/itf"
)

// SaveTrace archives a decoded trace and returns its assigned id. The
// body column holds the canonical re-emission, so exporting later does
// not depend on the original file. The trace row and its state rows are
// written in one transaction.
func (s *Store) SaveTrace(ctx context.Context, trace *itf.Trace[*itf.Record]) (string, error) {
	id := NewTraceID()

	body, err := itf.EncodeTrace(trace)
	if err != nil {
		return "", fmt.Errorf("save trace: %w", err)
	}
	vars, err := json.Marshal(trace.Vars)
	if err != nil {
		return "", fmt.Errorf("save trace: %w", err)
	}
	params, err := json.Marshal(trace.Params)
	if err != nil {
		return "", fmt.Errorf("save trace: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save trace: %w", err)
	}
	defer tx.Rollback()

	var loopIndex any
	if trace.LoopIndex != nil {
		loopIndex = *trace.LoopIndex
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO traces
		(id, source, description, format, vars, params, loop_index, state_count, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		trace.Meta.Source,
		trace.Meta.Description,
		trace.Meta.Format,
		string(vars),
		string(params),
		loopIndex,
		len(trace.States),
		string(body),
	)
	if err != nil {
		return "", fmt.Errorf("save trace: %w", err)
	}

	for pos, state := range trace.States {
		stateBody, err := itf.Emit(state.Value)
		if err != nil {
			return "", fmt.Errorf("save trace: state %d: %w", pos, err)
		}

		var metaIndex any
		if state.Meta.Index != nil {
			metaIndex = *state.Meta.Index
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO states (trace_id, pos, meta_index, body)
			VALUES (?, ?, ?, ?)
		`, id, pos, metaIndex, string(stateBody))
		if err != nil {
			return "", fmt.Errorf("save trace: state %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save trace: %w", err)
	}
	return id, nil
}

// NewTraceID generates a unique id for an imported trace.
// UUIDv7 is time-ordered, so id order follows import order.
// Uses github.com/google/uuid package for RFC 4122 compliant UUIDs.
func NewTraceID() string {
	return uuid.Must(uuid.NewV7()).String()
}
