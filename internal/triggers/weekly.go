package triggers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tutorbrain/internal/brain"
	"tutorbrain/internal/store"
)

// RunWeeklyAnalysis rebuilds the student's full state and persists a
// single summary note. One summary per student per ISO week; repeated
// runs within the week are no-ops at the store.
func (s *Service) RunWeeklyAnalysis(ctx context.Context, studentID string) {
	s.RunWeeklyAnalysisAt(ctx, studentID, time.Now())
}

// RunWeeklyAnalysisAt is RunWeeklyAnalysis with an explicit clock.
func (s *Service) RunWeeklyAnalysisAt(ctx context.Context, studentID string, now time.Time) {
	state := s.analyzer.AnalyzeStudentAt(ctx, studentID, now)

	priority := store.NoteMedium
	if state.StrugglingCount() > 2 {
		priority = store.NoteHigh
	}

	year, week := now.ISOWeek()
	s.insertNote(ctx, &store.Note{
		StudentID:  studentID,
		Text:       weeklySummary(state),
		Type:       store.NoteInsight,
		Priority:   priority,
		Actionable: len(state.Interventions) > 0,
		DedupKey:   fmt.Sprintf("weekly_summary:%s:%d-W%02d", studentID, year, week),
	}, "weekly_summary")

	s.realizeTopIntervention(ctx, studentID, state, year, week)
}

// realizeTopIntervention generates content for the highest-priority
// generative intervention of the week, if any.
func (s *Service) realizeTopIntervention(ctx context.Context, studentID string, state *brain.StudentState, year, week int) {
	if s.generator == nil {
		return
	}
	for _, iv := range state.Interventions {
		switch iv.Type {
		case brain.InterventionRemedialQuiz, brain.InterventionConceptReteach, brain.InterventionPrerequisiteCheck:
		default:
			continue
		}
		content := s.generator.GenerateIntervention(ctx, iv, studentID)
		if content == nil {
			s.log.Warn("weekly intervention produced no content",
				zap.String("student", studentID), zap.String("type", string(iv.Type)))
			return
		}
		s.insertNote(ctx, &store.Note{
			StudentID:  studentID,
			Text:       fmt.Sprintf("Prepared %s material: %s", iv.Type, content.Title),
			SkillID:    iv.SkillID,
			Type:       store.NoteIntervention,
			Priority:   store.NotePriority(iv.Priority),
			Actionable: true,
			DedupKey:   fmt.Sprintf("weekly_intervention:%s:%d-W%02d", studentID, year, week),
		}, "weekly_intervention")
		return
	}
}

func weeklySummary(state *brain.StudentState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Weekly summary: %d skill(s) struggling, %d improving. ",
		state.StrugglingCount(), state.ImprovingCount())
	fmt.Fprintf(&b, "Learning velocity %.1f points/week (%s).",
		state.Velocity.Overall, state.Velocity.Trend)
	if state.Velocity.PredictedBurnout {
		b.WriteString(" Burnout risk detected; a break is recommended.")
	}

	if len(state.Patterns) > 0 {
		labels := make([]string, len(state.Patterns))
		for i, p := range state.Patterns {
			labels[i] = p.Pattern
		}
		fmt.Fprintf(&b, " Patterns: %s.", strings.Join(labels, ", "))
	}

	if len(state.Interventions) > 0 {
		parts := make([]string, len(state.Interventions))
		for i, iv := range state.Interventions {
			target := iv.SkillID
			if target == "" {
				target = "all skills"
			}
			parts[i] = fmt.Sprintf("%s (%s, %s)", iv.Type, iv.Priority, target)
		}
		fmt.Fprintf(&b, " Recommended: %s.", strings.Join(parts, "; "))
	}

	return b.String()
}
