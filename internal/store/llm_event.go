package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LLMRequestEvent captures the data for a single LLM API call.
type LLMRequestEvent struct {
	ID           int64
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Timestamp    time.Time
}

// LLMEventRepo records and queries LLM request events.
type LLMEventRepo struct {
	db *sql.DB
}

// Append records an LLM API call event.
func (r *LLMEventRepo) Append(ctx context.Context, e *LLMRequestEvent) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	success := 0
	if e.Success {
		success = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_events
			(provider, model, purpose, input_tokens, output_tokens,
			 latency_ms, success, error_message, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Provider, e.Model, e.Purpose, e.InputTokens, e.OutputTokens,
		e.LatencyMs, success, e.ErrorMessage,
		e.Timestamp.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert llm event: %w", err)
	}
	return nil
}

// Recent returns the most recent LLM events, newest first, at most
// limit (0 = unlimited).
func (r *LLMEventRepo) Recent(ctx context.Context, limit int) ([]LLMRequestEvent, error) {
	q := `SELECT id, provider, model, purpose, input_tokens, output_tokens,
			latency_ms, success, error_message, timestamp
		FROM llm_events ORDER BY id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var (
			e       LLMRequestEvent
			success int
			ts      string
		)
		if err := rows.Scan(&e.ID, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &success,
			&e.ErrorMessage, &ts); err != nil {
			return nil, fmt.Errorf("scan llm event: %w", err)
		}
		e.Success = success != 0
		t, err := time.Parse(timeFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("parse llm event timestamp: %w", err)
		}
		e.Timestamp = t
		out = append(out, e)
	}
	return out, rows.Err()
}
