package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NoteRepo provides append and read access to engine notes.
type NoteRepo struct {
	db *sql.DB
}

// Insert persists a note. When the note carries a DedupKey and a note
// with the same key already exists, the insert is a silent no-op, so
// concurrent or repeated trigger evaluation cannot duplicate notes.
func (r *NoteRepo) Insert(ctx context.Context, n *Note) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	var dedup any
	if n.DedupKey != "" {
		dedup = n.DedupKey
	}
	actionable := 0
	if n.Actionable {
		actionable = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO notes
			(id, student_id, text, skill_id, session_id, note_type,
			 priority, actionable, dedup_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.StudentID, n.Text, n.SkillID, n.SessionID, string(n.Type),
		string(n.Priority), actionable, dedup,
		n.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// RecentByStudent returns the student's most recent notes, newest first,
// at most limit (0 = unlimited).
func (r *NoteRepo) RecentByStudent(ctx context.Context, studentID string, limit int) ([]Note, error) {
	q := `SELECT id, student_id, text, skill_id, session_id, note_type,
			priority, actionable, dedup_key, created_at
		FROM notes WHERE student_id = ? ORDER BY created_at DESC`
	args := []any{studentID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var (
			n          Note
			noteType   string
			priority   string
			actionable int
			dedup      sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&n.ID, &n.StudentID, &n.Text, &n.SkillID,
			&n.SessionID, &noteType, &priority, &actionable, &dedup,
			&createdAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.Type = NoteType(noteType)
		n.Priority = NotePriority(priority)
		n.Actionable = actionable != 0
		n.DedupKey = dedup.String
		t, err := time.Parse(timeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse note created_at: %w", err)
		}
		n.CreatedAt = t
		out = append(out, n)
	}
	return out, rows.Err()
}
