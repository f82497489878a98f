package triggers

import (
	"fmt"

	"tutorbrain/internal/store"
)

// reflexRule is one per-attempt trigger. Rules are evaluated in order,
// independently; more than one may fire for the same attempt.
type reflexRule struct {
	name       string
	noteType   store.NoteType
	priority   store.NotePriority
	actionable bool
	// critical rules additionally request eager content generation.
	critical bool
	// match inspects the current attempt plus the session's prior
	// attempts (newest first) and returns the note text when firing.
	match func(cur store.QuestionAttempt, prior []store.QuestionAttempt) (string, bool)
}

var reflexRules = []reflexRule{
	{
		name:       "three_wrong_in_row",
		noteType:   store.NoteIntervention,
		priority:   store.NoteUrgent,
		actionable: true,
		critical:   true,
		match: func(cur store.QuestionAttempt, prior []store.QuestionAttempt) (string, bool) {
			if len(prior) < 2 {
				return "", false
			}
			last3 := []store.QuestionAttempt{cur, prior[0], prior[1]}
			high := 0
			for _, a := range last3 {
				if a.Result != store.Incorrect {
					return "", false
				}
				if a.Confidence == store.ConfidenceHigh {
					high++
				}
			}
			if high < 2 {
				return "", false
			}
			return "Three wrong answers in a row with high confidence; the student likely holds a misconception rather than a gap", true
		},
	},
	{
		name:     "rapid_guessing",
		noteType: store.NotePattern,
		priority: store.NoteHigh,
		match: func(cur store.QuestionAttempt, prior []store.QuestionAttempt) (string, bool) {
			if cur.TimeSecs == nil || *cur.TimeSecs >= 3 || cur.Result != store.Incorrect {
				return "", false
			}
			return fmt.Sprintf("Answered incorrectly in %.1fs; likely guessing instead of working the problem", *cur.TimeSecs), true
		},
	},
	{
		name:     "unusually_slow",
		noteType: store.NoteInsight,
		priority: store.NoteMedium,
		match: func(cur store.QuestionAttempt, prior []store.QuestionAttempt) (string, bool) {
			if cur.TimeSecs == nil {
				return "", false
			}
			avg, ok := meanPriorTime(prior)
			if !ok || *cur.TimeSecs <= 5*avg {
				return "", false
			}
			return fmt.Sprintf("Took %.0fs against a %.0fs session average; the question may be badly pitched or the student is stuck", *cur.TimeSecs, avg), true
		},
	},
	{
		name:     "perfect_streak_broken",
		noteType: store.NoteInsight,
		priority: store.NoteMedium,
		match: func(cur store.QuestionAttempt, prior []store.QuestionAttempt) (string, bool) {
			if cur.Result != store.Incorrect || len(prior) < 5 {
				return "", false
			}
			for _, a := range prior[:5] {
				if a.Result != store.Correct {
					return "", false
				}
			}
			return "First miss after five straight correct answers; flag the question for review", true
		},
	},
}

// meanPriorTime returns the rolling average answer time over the prior
// attempts. A rolling average exists only once at least three prior
// attempts carry a time.
func meanPriorTime(prior []store.QuestionAttempt) (float64, bool) {
	var sum float64
	n := 0
	for _, a := range prior {
		if a.TimeSecs != nil {
			sum += *a.TimeSecs
			n++
		}
	}
	if n < 3 {
		return 0, false
	}
	return sum / float64(n), true
}

// sessionRule is one session-close trigger.
type sessionRule struct {
	name       string
	noteType   store.NoteType
	priority   store.NotePriority
	actionable bool
	// recompute requests a full student analysis after the note write.
	recompute bool
	// match inspects the closed session and its attempts (newest first).
	match func(sc SessionContext, attempts []store.QuestionAttempt) (string, bool)
}

var sessionRules = []sessionRule{
	{
		name:       "no_progress_in_session",
		noteType:   store.NoteIntervention,
		priority:   store.NoteUrgent,
		actionable: true,
		recompute:  true,
		match: func(sc SessionContext, _ []store.QuestionAttempt) (string, bool) {
			if sc.Session.MasteryDelta > 0 || sc.Session.Attempted < 5 {
				return "", false
			}
			return fmt.Sprintf("No mastery progress across %d attempts; the current material is not landing", sc.Session.Attempted), true
		},
	},
	{
		name:     "declining_attention",
		noteType: store.NotePattern,
		priority: store.NoteHigh,
		match: func(sc SessionContext, attempts []store.QuestionAttempt) (string, bool) {
			if len(attempts) < 4 {
				return "", false
			}
			// attempts are newest first: the chronologically first two
			// are at the tail, the last two at the head.
			first, ok1 := meanReasoningOf(attempts[len(attempts)-2:])
			last, ok2 := meanReasoningOf(attempts[:2])
			if !ok1 || !ok2 || first-last <= 1.5 {
				return "", false
			}
			return fmt.Sprintf("Reasoning quality fell from %.1f to %.1f over the session; attention faded before the end", first, last), true
		},
	},
	{
		name:     "mastery_threshold_reached",
		noteType: store.NoteCelebration,
		priority: store.NoteMedium,
		match: func(sc SessionContext, _ []store.QuestionAttempt) (string, bool) {
			if sc.NewMastery < 70 || sc.OldMastery >= 70 {
				return "", false
			}
			return fmt.Sprintf("Crossed 70%% mastery on %s; time to celebrate and introduce the next challenge", sc.Session.SkillID), true
		},
	},
}

func meanReasoningOf(attempts []store.QuestionAttempt) (float64, bool) {
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

func reflexDedupKey(rule string, sessionID string, attemptIndex int) string {
	return fmt.Sprintf("%s:%s:%d", rule, sessionID, attemptIndex)
}

func sessionDedupKey(rule string, sessionID string) string {
	return fmt.Sprintf("%s:%s", rule, sessionID)
}
