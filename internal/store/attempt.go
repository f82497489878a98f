package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// timeFormat is the canonical timestamp encoding for all tables.
const timeFormat = time.RFC3339Nano

// AttemptRepo provides append and read access to answer events.
type AttemptRepo struct {
	db *sql.DB
}

// Append records one answer event.
func (r *AttemptRepo) Append(ctx context.Context, a *QuestionAttempt) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO attempts
			(student_id, session_id, skill_id, correctness, confidence,
			 reasoning, time_secs, answer_style, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.StudentID, a.SessionID, a.SkillID, string(a.Result),
		string(a.Confidence), nullFloat(a.Reasoning), nullFloat(a.TimeSecs),
		string(a.Style), a.Timestamp.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("attempt id: %w", err)
	}
	a.ID = id
	return nil
}

// RecentBySkill returns the most recent attempts for a skill, newest
// first, at most limit (0 = unlimited).
func (r *AttemptRepo) RecentBySkill(ctx context.Context, skillID string, limit int) ([]QuestionAttempt, error) {
	q := `SELECT id, student_id, session_id, skill_id, correctness, confidence,
			reasoning, time_secs, answer_style, timestamp
		FROM attempts WHERE skill_id = ? ORDER BY id DESC`
	args := []any{skillID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(ctx, q, args...)
}

// RecentBySession returns the most recent attempts in a session, newest
// first, at most limit (0 = unlimited).
func (r *AttemptRepo) RecentBySession(ctx context.Context, sessionID string, limit int) ([]QuestionAttempt, error) {
	q := `SELECT id, student_id, session_id, skill_id, correctness, confidence,
			reasoning, time_secs, answer_style, timestamp
		FROM attempts WHERE session_id = ? ORDER BY id DESC`
	args := []any{sessionID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(ctx, q, args...)
}

func (r *AttemptRepo) query(ctx context.Context, q string, args ...any) ([]QuestionAttempt, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []QuestionAttempt
	for rows.Next() {
		var (
			a          QuestionAttempt
			result     string
			confidence string
			reasoning  sql.NullFloat64
			timeSecs   sql.NullFloat64
			style      string
			ts         string
		)
		if err := rows.Scan(&a.ID, &a.StudentID, &a.SessionID, &a.SkillID,
			&result, &confidence, &reasoning, &timeSecs, &style, &ts); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Result = Correctness(result)
		a.Confidence = Confidence(confidence)
		a.Style = AnswerStyle(style)
		if reasoning.Valid {
			v := reasoning.Float64
			a.Reasoning = &v
		}
		if timeSecs.Valid {
			v := timeSecs.Float64
			a.TimeSecs = &v
		}
		parsed, err := time.Parse(timeFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("parse attempt timestamp: %w", err)
		}
		a.Timestamp = parsed
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
