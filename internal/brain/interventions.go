package brain

import (
	"fmt"
	"sort"
)

// Prioritize fuses skill states and the velocity estimate into a ranked
// intervention list. The ordering is a hard contract: priority rank
// descending, ties broken by estimated impact descending, stable. A
// caller can take a prefix to get the N most important actions.
func Prioritize(skillStates []SkillState, velocity LearningVelocity) []Intervention {
	var out []Intervention

	for _, s := range skillStates {
		if s.Trend == TrendStuck && len(s.Struggling) >= stuckIndicatorCount {
			out = append(out,
				Intervention{
					Type:            InterventionConceptReteach,
					Priority:        PriorityUrgent,
					SkillID:         s.ID,
					Reason:          fmt.Sprintf("%s is stuck with %d struggling indicators", s.ID, len(s.Struggling)),
					SuggestedAction: "re-teach the concept from first principles",
					EstimatedImpact: 85,
				},
				Intervention{
					Type:            InterventionPrerequisiteCheck,
					Priority:        PriorityHigh,
					SkillID:         s.ID,
					Reason:          fmt.Sprintf("persistent struggle on %s may point at a prerequisite gap", s.ID),
					SuggestedAction: "probe prerequisite skills with a short check",
					EstimatedImpact: 70,
				},
			)
		}
		if s.Trend == TrendDeclining && s.Mastery < 50 {
			out = append(out, Intervention{
				Type:            InterventionRemedialQuiz,
				Priority:        PriorityHigh,
				SkillID:         s.ID,
				Reason:          fmt.Sprintf("%s is declining below 50 mastery", s.ID),
				SuggestedAction: "serve a short remedial quiz at reduced difficulty",
				EstimatedImpact: 75,
			})
		}
		if hasIndicator(s, IndicatorFrequentGuessing) {
			out = append(out, Intervention{
				Type:            InterventionDifficultyAdjust,
				Priority:        PriorityMedium,
				SkillID:         s.ID,
				Reason:          fmt.Sprintf("frequent guessing on %s suggests a difficulty mismatch", s.ID),
				SuggestedAction: "lower question difficulty one step",
				EstimatedImpact: 60,
			})
		}
	}

	if velocity.PredictedBurnout {
		out = append(out, Intervention{
			Type:            InterventionBreakRecommended,
			Priority:        PriorityHigh,
			Reason:          "decelerating progress with sustained attention decline",
			SuggestedAction: "recommend a practice break and lighter sessions",
			EstimatedImpact: 90,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.Rank() != out[j].Priority.Rank() {
			return out[i].Priority.Rank() > out[j].Priority.Rank()
		}
		return out[i].EstimatedImpact > out[j].EstimatedImpact
	})
	return out
}

func hasIndicator(s SkillState, label string) bool {
	for _, l := range s.Struggling {
		if l == label {
			return true
		}
	}
	return false
}
