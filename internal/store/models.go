package store

import (
	"time"

	"tutorbrain/internal/skills"
)

// Correctness grades a single answer.
type Correctness string

const (
	Correct   Correctness = "correct"
	Partial   Correctness = "partial"
	Incorrect Correctness = "incorrect"
)

// Confidence is the learner's (self- or system-estimated) confidence in
// an answer.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// AnswerStyle classifies how an answer was produced.
type AnswerStyle string

const (
	StyleNormal AnswerStyle = "normal"
	StyleGuess  AnswerStyle = "guess"
	StyleRushed AnswerStyle = "rushed"
)

// AttentionQuality describes how attention held up over a session.
type AttentionQuality string

const (
	AttentionStable    AttentionQuality = "stable"
	AttentionDeclining AttentionQuality = "declining"
	AttentionUnknown   AttentionQuality = "unknown"
)

// NoteType categorizes a persisted note.
type NoteType string

const (
	NotePattern      NoteType = "pattern"
	NoteInsight      NoteType = "insight"
	NoteIntervention NoteType = "intervention"
	NoteCelebration  NoteType = "celebration"
)

// NotePriority ranks a note for surfacing.
type NotePriority string

const (
	NoteUrgent NotePriority = "urgent"
	NoteHigh   NotePriority = "high"
	NoteMedium NotePriority = "medium"
	NoteLow    NotePriority = "low"
)

// QuestionAttempt is one recorded answer event. Immutable once written;
// the engine only reads it. Reasoning and TimeSecs are nil when the
// capturing layer did not supply them.
type QuestionAttempt struct {
	ID         int64
	StudentID  string
	SessionID  string
	SkillID    string
	Result     Correctness
	Confidence Confidence
	Reasoning  *float64 // 0-5 reasoning quality
	TimeSecs   *float64 // time to answer, seconds
	Style      AnswerStyle
	Timestamp  time.Time
}

// Session is the closed aggregate of one practice session. Created by
// session-closing logic outside this engine; read-only here.
type Session struct {
	ID           string
	StudentID    string
	SkillID      string
	MasteryDelta float64
	Attempted    int
	Correct      int
	AvgReasoning float64
	Attention    AttentionQuality
	Timestamp    time.Time
}

// SkillRecord is the persisted per-skill record for a student.
type SkillRecord struct {
	ID            string
	StudentID     string
	Domain        skills.Domain
	Mastery       float64 // 0-100
	TotalAttempts int
	LastSeen      *time.Time
}

// Note is an append-only, human-readable record the engine persists for
// audit, insight and alerting. DedupKey, when non-empty, makes repeated
// inserts of the same underlying condition a no-op.
type Note struct {
	ID         string
	StudentID  string
	Text       string
	SkillID    string // empty = applies globally
	SessionID  string
	Type       NoteType
	Priority   NotePriority
	Actionable bool
	DedupKey   string
	CreatedAt  time.Time
}
