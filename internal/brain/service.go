package brain

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tutorbrain/internal/skills"
	"tutorbrain/internal/store"
)

// Config tunes the analysis windows.
type Config struct {
	// AttemptLimit is the per-skill attempt history consulted.
	AttemptLimit int
	// PatternWindowDays is the trailing session window for pattern
	// detection and velocity estimation.
	PatternWindowDays int
}

// DefaultConfig returns the standard analysis windows.
func DefaultConfig() Config {
	return Config{
		AttemptLimit:      20,
		PatternWindowDays: 14,
	}
}

// SkillReader reads a student's skill records.
type SkillReader interface {
	ByStudent(ctx context.Context, studentID string) ([]store.SkillRecord, error)
}

// AttemptReader reads recent attempts, newest first.
type AttemptReader interface {
	RecentBySkill(ctx context.Context, skillID string, limit int) ([]store.QuestionAttempt, error)
}

// SessionReader reads recent sessions, newest first.
type SessionReader interface {
	RecentByStudent(ctx context.Context, studentID string, sinceDays int) ([]store.Session, error)
}

// Service runs the full analysis pipeline. Collaborators are injected
// so callers and tests can supply fakes; there is no process-wide
// singleton.
type Service struct {
	cfg      Config
	skills   SkillReader
	attempts AttemptReader
	sessions SessionReader
	log      *zap.Logger
}

// NewService creates an analysis service.
func NewService(cfg Config, sk SkillReader, at AttemptReader, se SessionReader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cfg: cfg, skills: sk, attempts: at, sessions: se, log: log}
}

// AnalyzeStudent rebuilds the student's full derived state from source
// events. Store failures degrade the result rather than fail it: with
// no readable skills a minimal empty state is returned, and partial
// read failures drop only the affected derived pieces.
func (s *Service) AnalyzeStudent(ctx context.Context, studentID string) *StudentState {
	return s.AnalyzeStudentAt(ctx, studentID, time.Now())
}

// AnalyzeStudentAt is AnalyzeStudent with an explicit clock, so the
// result is a pure function of the events visible at now.
func (s *Service) AnalyzeStudentAt(ctx context.Context, studentID string, now time.Time) *StudentState {
	state := &StudentState{
		StudentID:   studentID,
		GeneratedAt: now,
		Velocity:    LearningVelocity{Trend: VelocityStable, ByDomain: map[skills.Domain]float64{}},
	}

	records, err := s.skills.ByStudent(ctx, studentID)
	if err != nil {
		s.log.Warn("skills unavailable, returning minimal state",
			zap.String("student", studentID), zap.Error(err))
		return state
	}

	domains := make(map[string]skills.Domain, len(records))
	for _, rec := range records {
		domains[rec.ID] = rec.Domain

		attempts, err := s.attempts.RecentBySkill(ctx, rec.ID, s.cfg.AttemptLimit)
		if err != nil {
			s.log.Warn("attempts unavailable, skill reported without indicators",
				zap.String("student", studentID), zap.String("skill", rec.ID), zap.Error(err))
			attempts = nil
		}
		state.Skills = append(state.Skills, AnalyzeSkill(rec, attempts, now))
	}

	sessions, err := s.sessions.RecentByStudent(ctx, studentID, s.cfg.PatternWindowDays)
	if err != nil {
		s.log.Warn("sessions unavailable, skipping patterns and velocity",
			zap.String("student", studentID), zap.Error(err))
		sessions = nil
	}
	state.RecentSessions = sessions
	state.Patterns = DetectPatterns(sessions)
	state.Velocity = ComputeVelocity(sessions, domains)

	state.Interventions = Prioritize(state.Skills, state.Velocity)
	return state
}

// StrugglingCount returns how many skills carry at least one struggling
// indicator.
func (st *StudentState) StrugglingCount() int {
	n := 0
	for _, s := range st.Skills {
		if len(s.Struggling) > 0 {
			n++
		}
	}
	return n
}

// ImprovingCount returns how many skills trend improving.
func (st *StudentState) ImprovingCount() int {
	n := 0
	for _, s := range st.Skills {
		if s.Trend == TrendImproving {
			n++
		}
	}
	return n
}
