package brain

import (
	"fmt"
	"time"

	"tutorbrain/internal/store"
)

// Pattern labels emitted by the detector.
const (
	PatternBetterMorning    = "performs_better_morning"
	PatternBetterAfternoon  = "performs_better_afternoon"
	PatternAttentionDecline = "attention_declining_over_time"
)

const (
	timeOfDayMinSessions = 3
	timeOfDayGap         = 0.5
	lengthBucketMin      = 2 // bucket must exceed this to report
	attentionMinSessions = 5
	attentionGap         = 0.7
)

// DetectPatterns finds cross-session regularities in the sessions of
// the trailing pattern window, newest first.
func DetectPatterns(sessions []store.Session) []BehavioralPattern {
	var out []BehavioralPattern
	if p := timeOfDayPattern(sessions); p != nil {
		out = append(out, *p)
	}
	if p := sessionLengthPattern(sessions); p != nil {
		out = append(out, *p)
	}
	if p := attentionDeclinePattern(sessions); p != nil {
		out = append(out, *p)
	}
	return out
}

// timeOfDayPattern compares reasoning quality between morning and
// afternoon sessions. Requires at least 3 sessions in each group.
func timeOfDayPattern(sessions []store.Session) *BehavioralPattern {
	var morning, afternoon []store.Session
	for _, s := range sessions {
		if s.Timestamp.Hour() < 12 {
			morning = append(morning, s)
		} else {
			afternoon = append(afternoon, s)
		}
	}
	if len(morning) < timeOfDayMinSessions || len(afternoon) < timeOfDayMinSessions {
		return nil
	}

	gap := meanSessionReasoning(morning) - meanSessionReasoning(afternoon)
	label := PatternBetterMorning
	if gap < 0 {
		gap = -gap
		label = PatternBetterAfternoon
	}
	if gap <= timeOfDayGap {
		return nil
	}

	confidence := gap * 20
	if confidence > 100 {
		confidence = 100
	}
	occurrences := len(morning)
	if len(afternoon) < occurrences {
		occurrences = len(afternoon)
	}
	return &BehavioralPattern{
		Pattern:     label,
		Confidence:  confidence,
		FirstSeen:   oldestTimestamp(sessions),
		Occurrences: occurrences,
		Impact:      ImpactPositive,
	}
}

// sessionLengthPattern buckets sessions by question count and reports
// the best-performing bucket when it has enough sessions behind it.
func sessionLengthPattern(sessions []store.Session) *BehavioralPattern {
	buckets := map[string][]store.Session{}
	for _, s := range sessions {
		switch {
		case s.Attempted <= 3:
			buckets["short"] = append(buckets["short"], s)
		case s.Attempted <= 6:
			buckets["medium"] = append(buckets["medium"], s)
		default:
			buckets["long"] = append(buckets["long"], s)
		}
	}

	best := ""
	bestMean := 0.0
	// Fixed iteration order keeps the result deterministic.
	for _, name := range []string{"short", "medium", "long"} {
		group := buckets[name]
		if len(group) == 0 {
			continue
		}
		if m := meanSessionReasoning(group); best == "" || m > bestMean {
			best = name
			bestMean = m
		}
	}
	if best == "" || len(buckets[best]) <= lengthBucketMin {
		return nil
	}

	return &BehavioralPattern{
		Pattern:     fmt.Sprintf("optimal_session_length_%s", best),
		Confidence:  70,
		FirstSeen:   oldestTimestamp(buckets[best]),
		Occurrences: len(buckets[best]),
		Impact:      ImpactPositive,
	}
}

// attentionDeclinePattern compares reasoning quality of the 3 oldest
// sessions in the window against the 3 newest.
func attentionDeclinePattern(sessions []store.Session) *BehavioralPattern {
	if len(sessions) < attentionMinSessions {
		return nil
	}

	newest := sessions[:3]
	oldest := sessions[len(sessions)-3:]
	if meanSessionReasoning(oldest)-meanSessionReasoning(newest) <= attentionGap {
		return nil
	}

	return &BehavioralPattern{
		Pattern:     PatternAttentionDecline,
		Confidence:  80,
		FirstSeen:   oldestTimestamp(sessions),
		Occurrences: len(sessions),
		Impact:      ImpactNegative,
	}
}

func meanSessionReasoning(sessions []store.Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sessions {
		sum += s.AvgReasoning
	}
	return sum / float64(len(sessions))
}

func oldestTimestamp(sessions []store.Session) time.Time {
	if len(sessions) == 0 {
		return time.Time{}
	}
	oldest := sessions[0].Timestamp
	for _, s := range sessions[1:] {
		if s.Timestamp.Before(oldest) {
			oldest = s.Timestamp
		}
	}
	return oldest
}
