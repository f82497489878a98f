package brain

import (
	"tutorbrain/internal/skills"
	"tutorbrain/internal/store"
)

const (
	burnoutMinSessions    = 10 // session count must exceed this
	burnoutRecentDeclines = 3
	accelerationFactor    = 1.2
	decelerationFactor    = 0.8
)

// ComputeVelocity estimates the overall and per-domain mastery gain
// rate from the window's sessions (newest first) and flags predicted
// burnout. skillDomains maps skill IDs to their domain for grouping.
func ComputeVelocity(sessions []store.Session, skillDomains map[string]skills.Domain) LearningVelocity {
	v := LearningVelocity{
		Trend:    VelocityStable,
		ByDomain: map[skills.Domain]float64{},
	}
	if len(sessions) == 0 {
		return v
	}

	weeks := windowWeeks(sessions)
	v.Overall = sumDeltas(sessions) / weeks

	byDomain := map[skills.Domain][]store.Session{}
	for _, s := range sessions {
		d, ok := skillDomains[s.SkillID]
		if !ok {
			continue
		}
		byDomain[d] = append(byDomain[d], s)
	}
	for d, group := range byDomain {
		v.ByDomain[d] = sumDeltas(group) / weeks
	}

	v.Trend = velocityTrend(sessions)
	v.PredictedBurnout = predictBurnout(sessions, v.Trend)
	return v
}

// windowWeeks returns the session span in weeks, floored at one week so
// a single afternoon of practice does not report an inflated rate.
func windowWeeks(sessions []store.Session) float64 {
	newest := sessions[0].Timestamp
	oldest := sessions[len(sessions)-1].Timestamp
	for _, s := range sessions {
		if s.Timestamp.After(newest) {
			newest = s.Timestamp
		}
		if s.Timestamp.Before(oldest) {
			oldest = s.Timestamp
		}
	}
	weeks := newest.Sub(oldest).Hours() / (24 * 7)
	if weeks < 1 {
		return 1
	}
	return weeks
}

func sumDeltas(sessions []store.Session) float64 {
	var sum float64
	for _, s := range sessions {
		sum += s.MasteryDelta
	}
	return sum
}

// velocityTrend splits the window in half by recency and compares the
// halves' mean mastery deltas.
func velocityTrend(sessions []store.Session) VelocityTrend {
	if len(sessions) < 2 {
		return VelocityStable
	}

	mid := len(sessions) / 2
	recent := sessions[:mid]
	older := sessions[mid:]

	recentMean := sumDeltas(recent) / float64(len(recent))
	olderMean := sumDeltas(older) / float64(len(older))

	switch {
	case recentMean > olderMean*accelerationFactor:
		return VelocityAccelerating
	case recentMean < olderMean*decelerationFactor:
		return VelocityDecelerating
	default:
		return VelocityStable
	}
}

// predictBurnout flags a student whose progress is decelerating across
// a sustained run of sessions while attention keeps declining.
func predictBurnout(sessions []store.Session, trend VelocityTrend) bool {
	if trend != VelocityDecelerating || len(sessions) <= burnoutMinSessions {
		return false
	}
	for _, s := range sessions[:burnoutRecentDeclines] {
		if s.Attention != store.AttentionDeclining {
			return false
		}
	}
	return true
}
