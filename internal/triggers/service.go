package triggers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tutorbrain/internal/brain"
	"tutorbrain/internal/store"
)

// Service evaluates trigger rules at the three cadences of the engine:
// per attempt (reflex), per session close, and weekly. All collaborators
// are injected; rule evaluation itself is pure.
type Service struct {
	notes     NoteWriter
	attempts  AttemptReader
	analyzer  Analyzer
	generator Generator
	log       *zap.Logger
}

// NewService creates a trigger evaluation service. generator may be nil
// when no content provider is configured; critical rules then record
// their note without eager generation.
func NewService(notes NoteWriter, attempts AttemptReader, analyzer Analyzer, generator Generator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		notes:     notes,
		attempts:  attempts,
		analyzer:  analyzer,
		generator: generator,
		log:       log,
	}
}

// CheckImmediateTriggers evaluates the reflex rules against one
// just-recorded attempt. Rules fire independently; each hit writes a
// deduplicated note, and critical hits additionally request eager
// content generation. Store failures are logged, never propagated.
func (s *Service) CheckImmediateTriggers(ctx context.Context, ac AttemptContext) {
	prior, err := s.attempts.RecentBySession(ctx, ac.SessionID, 0)
	if err != nil {
		s.log.Warn("session history unavailable, evaluating reflex rules on current attempt only",
			zap.String("session", ac.SessionID), zap.Error(err))
		prior = nil
	}
	// The current attempt may already be persisted; history means the
	// attempts before it.
	if ac.Attempt.ID != 0 {
		prior = withoutAttempt(prior, ac.Attempt.ID)
	}

	for _, rule := range reflexRules {
		text, fired := rule.match(ac.Attempt, prior)
		if !fired {
			continue
		}
		s.insertNote(ctx, &store.Note{
			StudentID:  ac.StudentID,
			Text:       text,
			SkillID:    ac.Attempt.SkillID,
			SessionID:  ac.SessionID,
			Type:       rule.noteType,
			Priority:   rule.priority,
			Actionable: rule.actionable,
			DedupKey:   reflexDedupKey(rule.name, ac.SessionID, ac.AttemptIndex),
		}, rule.name)

		if rule.critical {
			s.eagerReteach(ctx, ac)
		}
	}
}

// eagerReteach realizes a concept_reteach intervention immediately
// instead of waiting for session end. Generation failure leaves the
// note as the standing record.
func (s *Service) eagerReteach(ctx context.Context, ac AttemptContext) {
	if s.generator == nil {
		return
	}
	iv := brain.Intervention{
		Type:            brain.InterventionConceptReteach,
		Priority:        brain.PriorityUrgent,
		SkillID:         ac.Attempt.SkillID,
		Reason:          "Three wrong answers in a row with high confidence",
		SuggestedAction: "Re-teach the concept from a different angle before the next question",
		EstimatedImpact: 85,
	}
	content := s.generator.GenerateIntervention(ctx, iv, ac.StudentID)
	if content == nil {
		s.log.Warn("eager reteach produced no content",
			zap.String("student", ac.StudentID), zap.String("skill", ac.Attempt.SkillID))
		return
	}
	s.log.Info("eager reteach content generated",
		zap.String("student", ac.StudentID),
		zap.String("skill", ac.Attempt.SkillID),
		zap.String("title", content.Title))
}

// CheckSessionTriggers evaluates the session-close rules. The
// no_progress rule additionally forces a full analysis recompute so the
// student's derived state reflects the stalled session right away.
func (s *Service) CheckSessionTriggers(ctx context.Context, sc SessionContext) {
	attempts, err := s.attempts.RecentBySession(ctx, sc.Session.ID, 0)
	if err != nil {
		s.log.Warn("session attempts unavailable, attempt-level session rules will not fire",
			zap.String("session", sc.Session.ID), zap.Error(err))
		attempts = nil
	}

	for _, rule := range sessionRules {
		text, fired := rule.match(sc, attempts)
		if !fired {
			continue
		}
		s.insertNote(ctx, &store.Note{
			StudentID:  sc.Session.StudentID,
			Text:       text,
			SkillID:    sc.Session.SkillID,
			SessionID:  sc.Session.ID,
			Type:       rule.noteType,
			Priority:   rule.priority,
			Actionable: rule.actionable,
			DedupKey:   sessionDedupKey(rule.name, sc.Session.ID),
		}, rule.name)

		if rule.recompute && s.analyzer != nil {
			state := s.analyzer.AnalyzeStudentAt(ctx, sc.Session.StudentID, time.Now())
			s.log.Info("post-session recompute",
				zap.String("student", sc.Session.StudentID),
				zap.Int("struggling", state.StrugglingCount()),
				zap.Int("interventions", len(state.Interventions)))
		}
	}
}

func (s *Service) insertNote(ctx context.Context, n *store.Note, rule string) {
	if err := s.notes.Insert(ctx, n); err != nil {
		s.log.Warn("trigger note not persisted",
			zap.String("rule", rule),
			zap.String("student", n.StudentID),
			zap.Error(err))
	}
}

func withoutAttempt(attempts []store.QuestionAttempt, id int64) []store.QuestionAttempt {
	out := attempts[:0]
	for _, a := range attempts {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
