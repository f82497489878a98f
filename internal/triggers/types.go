package triggers

import (
	"context"
	"time"

	"tutorbrain/internal/brain"
	"tutorbrain/internal/remediation"
	"tutorbrain/internal/store"
)

// AttemptContext describes one just-recorded answer event for the
// reflex layer.
type AttemptContext struct {
	StudentID string
	SessionID string
	// AttemptIndex is the 0-based position of the attempt within its
	// session. It feeds the note dedup key, so re-evaluating the same
	// attempt cannot write a second note.
	AttemptIndex int
	Attempt      store.QuestionAttempt
}

// SessionContext describes one just-closed session for the session
// layer. Old/NewMastery are the skill's mastery before and after the
// session was applied.
type SessionContext struct {
	Session    store.Session
	OldMastery float64
	NewMastery float64
}

// NoteWriter appends engine notes.
type NoteWriter interface {
	Insert(ctx context.Context, n *store.Note) error
}

// AttemptReader reads a session's attempts, newest first.
type AttemptReader interface {
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]store.QuestionAttempt, error)
}

// Analyzer rebuilds a student's derived state from source events.
type Analyzer interface {
	AnalyzeStudentAt(ctx context.Context, studentID string, now time.Time) *brain.StudentState
}

// Generator realizes an intervention into content. A nil result means
// no content was produced; the intervention decision stands regardless.
type Generator interface {
	GenerateIntervention(ctx context.Context, iv brain.Intervention, studentID string) *remediation.GeneratedContent
}
