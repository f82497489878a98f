package brain

import (
	"time"

	"tutorbrain/internal/skills"
	"tutorbrain/internal/store"
)

// Trend is the coarse classification of a skill's recent trajectory.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendStuck     Trend = "stuck"
)

// Struggling indicator labels. Each is an independent boolean signal
// computed from a skill's recent attempts.
const (
	IndicatorLowSuccessRate    = "low_success_rate"
	IndicatorWeakReasoning     = "weak_reasoning"
	IndicatorStuckAtLowMastery = "stuck_at_low_mastery"
	IndicatorFrequentGuessing  = "frequent_guessing"
	IndicatorRushingThrough    = "rushing_through"
)

// SkillState is the derived per-skill analysis result. It is rebuilt
// from raw attempts on every analysis call and never mutated in place.
type SkillState struct {
	ID            string
	Domain        skills.Domain
	Mastery       float64 // 0-100
	Trend         Trend
	Velocity      float64 // signed mastery points/week
	LastPracticed *time.Time
	Struggling    []string // indicator labels, in evaluation order
}

// Impact classifies the effect of a behavioral pattern.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// BehavioralPattern is a cross-session regularity detected over the
// trailing pattern window. Ephemeral, recomputed per analysis call.
type BehavioralPattern struct {
	Pattern     string
	Confidence  float64 // 0-100
	FirstSeen   time.Time
	Occurrences int
	Impact      Impact
}

// VelocityTrend classifies the change in learning velocity.
type VelocityTrend string

const (
	VelocityAccelerating VelocityTrend = "accelerating"
	VelocityDecelerating VelocityTrend = "decelerating"
	VelocityStable       VelocityTrend = "stable"
)

// LearningVelocity is the estimated rate of mastery change per week.
type LearningVelocity struct {
	Overall          float64
	ByDomain         map[skills.Domain]float64
	Trend            VelocityTrend
	PredictedBurnout bool
}

// InterventionType names a remedial action.
type InterventionType string

const (
	InterventionRemedialQuiz      InterventionType = "remedial_quiz"
	InterventionConceptReteach    InterventionType = "concept_reteach"
	InterventionPrerequisiteCheck InterventionType = "prerequisite_check"
	InterventionBreakRecommended  InterventionType = "break_recommended"
	InterventionDifficultyAdjust  InterventionType = "difficulty_adjustment"
)

// Priority ranks an intervention.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank maps a priority to its numeric rank (urgent=4 … low=1).
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Intervention is a prioritized, typed recommendation for remedial
// action. It is a pure decision output: never mutated after creation,
// only ranked and optionally realized into generated content.
type Intervention struct {
	Type            InterventionType
	Priority        Priority
	SkillID         string // empty = applies globally
	Reason          string
	SuggestedAction string
	EstimatedImpact float64 // 0-100
}

// StudentState is the aggregate analysis result, produced fresh on each
// analysis call from source events.
type StudentState struct {
	StudentID      string
	Skills         []SkillState
	RecentSessions []store.Session
	Patterns       []BehavioralPattern
	Velocity       LearningVelocity
	Interventions  []Intervention // priority-sorted, see Prioritize
	GeneratedAt    time.Time
}
