package brain

import (
	"time"

	"tutorbrain/internal/store"
)

// Thresholds for the trend analyzer. Values are part of the engine's
// behavioral contract; see the package tests.
const (
	indicatorWindow       = 5
	lowSuccessRate        = 0.4
	weakReasoningMean     = 2.5
	lowMasteryCeiling     = 30.0
	lowMasteryMinAttempts = 10
	guessCountThreshold   = 3
	rushCountThreshold    = 4
	stuckIndicatorCount   = 3
	velocityWindowDays    = 7
)

// AnalyzeSkill classifies one skill's trajectory from its record and its
// most recent attempts (newest first, at most the analysis limit).
func AnalyzeSkill(rec store.SkillRecord, attempts []store.QuestionAttempt, now time.Time) SkillState {
	state := SkillState{
		ID:            rec.ID,
		Domain:        rec.Domain,
		Mastery:       rec.Mastery,
		Trend:         TrendStable,
		LastPracticed: rec.LastSeen,
	}
	if state.LastPracticed == nil && len(attempts) > 0 {
		t := attempts[0].Timestamp
		state.LastPracticed = &t
	}

	if len(attempts) == 0 {
		return state
	}

	recent := attempts
	if len(recent) > indicatorWindow {
		recent = recent[:indicatorWindow]
	}

	correctRate := correctFraction(recent)
	avgReasoning, reasoningKnown := meanReasoning(recent)

	// Struggling indicators, each independently evaluated. Indicators
	// relying on a field no attempt supplies simply do not fire.
	// The success-rate bound is inclusive: 2 of 5 correct counts as low.
	if correctRate <= lowSuccessRate {
		state.Struggling = append(state.Struggling, IndicatorLowSuccessRate)
	}
	if reasoningKnown && avgReasoning < weakReasoningMean {
		state.Struggling = append(state.Struggling, IndicatorWeakReasoning)
	}
	if rec.Mastery < lowMasteryCeiling && rec.TotalAttempts > lowMasteryMinAttempts {
		state.Struggling = append(state.Struggling, IndicatorStuckAtLowMastery)
	}
	if countStyle(recent, store.StyleGuess) >= guessCountThreshold {
		state.Struggling = append(state.Struggling, IndicatorFrequentGuessing)
	}
	if countStyle(recent, store.StyleRushed) >= rushCountThreshold {
		state.Struggling = append(state.Struggling, IndicatorRushingThrough)
	}

	// Trend classification, in precedence order.
	switch {
	case len(state.Struggling) >= stuckIndicatorCount:
		state.Trend = TrendStuck
	case correctRate < 0.5 && reasoningKnown && avgReasoning < 3:
		state.Trend = TrendDeclining
	case correctRate > 0.7 && reasoningKnown && avgReasoning > 3.5:
		state.Trend = TrendImproving
	default:
		state.Trend = TrendStable
	}

	state.Velocity = skillVelocity(attempts, now)
	return state
}

// skillVelocity estimates weekly mastery throughput from the trailing
// 7 days of attempts. The mean-score-times-count formula is a heuristic
// proxy for a rate, preserved exactly for behavioral compatibility; it
// is not a calibrated mastery-points-per-week measure.
func skillVelocity(attempts []store.QuestionAttempt, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -velocityWindowDays)

	var scores []float64
	for _, a := range attempts {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		scores = append(scores, attemptScore(a))
	}
	if len(scores) == 0 {
		return 0
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))
	return mean * float64(len(scores))
}

// attemptScore maps one attempt to a signed mastery score.
func attemptScore(a store.QuestionAttempt) float64 {
	switch a.Result {
	case store.Correct:
		if a.Reasoning != nil && *a.Reasoning >= 4 {
			return 3
		}
		return 2
	case store.Partial:
		return 0
	default: // incorrect
		if a.Confidence == store.ConfidenceHigh {
			return -3
		}
		return -2
	}
}

func correctFraction(attempts []store.QuestionAttempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	correct := 0
	for _, a := range attempts {
		if a.Result == store.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(attempts))
}

// meanReasoning averages reasoning quality over the attempts that carry
// it. The second return is false when no attempt does.
func meanReasoning(attempts []store.QuestionAttempt) (float64, bool) {
	var sum float64
	n := 0
	for _, a := range attempts {
		if a.Reasoning != nil {
			sum += *a.Reasoning
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func countStyle(attempts []store.QuestionAttempt, style store.AnswerStyle) int {
	n := 0
	for _, a := range attempts {
		if a.Style == style {
			n++
		}
	}
	return n
}
