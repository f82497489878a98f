package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRepo provides append and read access to closed sessions.
type SessionRepo struct {
	db *sql.DB
}

// Append records one closed session.
func (r *SessionRepo) Append(ctx context.Context, s *Session) error {
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions
			(id, student_id, skill_id, mastery_delta, questions_attempted,
			 questions_correct, avg_reasoning, attention, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.StudentID, s.SkillID, s.MasteryDelta, s.Attempted,
		s.Correct, s.AvgReasoning, string(s.Attention),
		s.Timestamp.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// RecentByStudent returns the student's sessions from the trailing
// sinceDays days, newest first.
func (r *SessionRepo) RecentByStudent(ctx context.Context, studentID string, sinceDays int) ([]Session, error) {
	cutoff := time.Now().AddDate(0, 0, -sinceDays).UTC().Format(timeFormat)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, skill_id, mastery_delta, questions_attempted,
			questions_correct, avg_reasoning, attention, timestamp
		FROM sessions
		WHERE student_id = ? AND timestamp >= ?
		ORDER BY timestamp DESC`,
		studentID, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			s         Session
			attention string
			ts        string
		)
		if err := rows.Scan(&s.ID, &s.StudentID, &s.SkillID, &s.MasteryDelta,
			&s.Attempted, &s.Correct, &s.AvgReasoning, &attention, &ts); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.Attention = AttentionQuality(attention)
		parsed, err := time.Parse(timeFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("parse session timestamp: %w", err)
		}
		s.Timestamp = parsed
		out = append(out, s)
	}
	return out, rows.Err()
}
