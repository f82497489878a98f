package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tutorbrain/internal/skills"
)

// SkillRepo provides access to per-student skill records.
type SkillRepo struct {
	db *sql.DB
}

// Upsert inserts or updates a skill record.
func (r *SkillRepo) Upsert(ctx context.Context, rec *SkillRecord) error {
	var lastSeen any
	if rec.LastSeen != nil {
		lastSeen = rec.LastSeen.UTC().Format(timeFormat)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO skills (id, student_id, domain, mastery, total_attempts, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (student_id, id) DO UPDATE SET
			domain = excluded.domain,
			mastery = excluded.mastery,
			total_attempts = excluded.total_attempts,
			last_seen = excluded.last_seen`,
		rec.ID, rec.StudentID, string(rec.Domain), rec.Mastery,
		rec.TotalAttempts, lastSeen,
	)
	if err != nil {
		return fmt.Errorf("upsert skill: %w", err)
	}
	return nil
}

// ByStudent returns all skill records for a student, ordered by id.
func (r *SkillRepo) ByStudent(ctx context.Context, studentID string) ([]SkillRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, domain, mastery, total_attempts, last_seen
		FROM skills WHERE student_id = ? ORDER BY id`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var out []SkillRecord
	for rows.Next() {
		var (
			rec      SkillRecord
			domain   string
			lastSeen sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.StudentID, &domain, &rec.Mastery,
			&rec.TotalAttempts, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		rec.Domain = skills.Domain(domain)
		if lastSeen.Valid {
			t, err := time.Parse(timeFormat, lastSeen.String)
			if err != nil {
				return nil, fmt.Errorf("parse skill last_seen: %w", err)
			}
			rec.LastSeen = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
