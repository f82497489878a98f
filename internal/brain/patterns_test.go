package brain

import (
	"testing"
	"time"

	"tutorbrain/internal/store"
)

func session(reasoning float64, attempted int, ts time.Time) store.Session {
	return store.Session{
		AvgReasoning: reasoning,
		Attempted:    attempted,
		Timestamp:    ts,
	}
}

func at(hour int, daysAgo int) time.Time {
	base := time.Date(2026, 8, 20, hour, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, -daysAgo)
}

func findPattern(patterns []BehavioralPattern, label string) *BehavioralPattern {
	for i := range patterns {
		if patterns[i].Pattern == label {
			return &patterns[i]
		}
	}
	return nil
}

func TestTimeOfDayPattern_Morning(t *testing.T) {
	sessions := []store.Session{
		session(4.5, 5, at(9, 0)),
		session(4.2, 5, at(10, 1)),
		session(4.4, 5, at(8, 2)),
		session(3.0, 5, at(15, 3)),
		session(3.2, 5, at(16, 4)),
		session(3.1, 5, at(14, 5)),
	}

	p := timeOfDayPattern(sessions)
	if p == nil {
		t.Fatal("expected a time-of-day pattern")
	}
	if p.Pattern != PatternBetterMorning {
		t.Errorf("Pattern = %s, want %s", p.Pattern, PatternBetterMorning)
	}
	// gap = (4.5+4.2+4.4)/3 - (3.0+3.2+3.1)/3 ~= 1.27 -> confidence ~25.3
	if p.Confidence < 25 || p.Confidence > 26 {
		t.Errorf("Confidence = %f, want ~25.3", p.Confidence)
	}
	if p.Occurrences != 3 {
		t.Errorf("Occurrences = %d, want 3", p.Occurrences)
	}
	if p.Impact != ImpactPositive {
		t.Errorf("Impact = %s, want positive", p.Impact)
	}
}

func TestTimeOfDayPattern_RequiresThreePerGroup(t *testing.T) {
	sessions := []store.Session{
		session(4.5, 5, at(9, 0)),
		session(4.2, 5, at(10, 1)),
		session(3.0, 5, at(15, 2)),
		session(3.2, 5, at(16, 3)),
		session(3.1, 5, at(14, 4)),
	}
	if p := timeOfDayPattern(sessions); p != nil {
		t.Errorf("expected no pattern with only 2 morning sessions, got %+v", p)
	}
}

func TestTimeOfDayPattern_ConfidenceCapped(t *testing.T) {
	sessions := []store.Session{
		session(5, 5, at(9, 0)),
		session(5, 5, at(9, 1)),
		session(5, 5, at(9, 2)),
		session(0, 5, at(15, 3)),
		session(0, 5, at(15, 4)),
		session(0, 5, at(15, 5)),
	}
	p := timeOfDayPattern(sessions)
	if p == nil {
		t.Fatal("expected a pattern")
	}
	if p.Confidence != 100 {
		t.Errorf("Confidence = %f, want capped at 100", p.Confidence)
	}
}

func TestSessionLengthPattern(t *testing.T) {
	sessions := []store.Session{
		session(4.5, 5, at(10, 0)),
		session(4.4, 5, at(10, 1)),
		session(4.6, 6, at(10, 2)),
		session(3.0, 2, at(10, 3)),
		session(2.8, 8, at(10, 4)),
	}

	p := sessionLengthPattern(sessions)
	if p == nil {
		t.Fatal("expected a session-length pattern")
	}
	if p.Pattern != "optimal_session_length_medium" {
		t.Errorf("Pattern = %s, want optimal_session_length_medium", p.Pattern)
	}
	if p.Confidence != 70 {
		t.Errorf("Confidence = %f, want 70", p.Confidence)
	}
	if p.Occurrences != 3 {
		t.Errorf("Occurrences = %d, want 3", p.Occurrences)
	}
}

func TestSessionLengthPattern_BestBucketTooSmall(t *testing.T) {
	sessions := []store.Session{
		session(4.5, 5, at(10, 0)),
		session(4.4, 5, at(10, 1)),
		session(3.0, 2, at(10, 2)),
	}
	if p := sessionLengthPattern(sessions); p != nil {
		t.Errorf("expected no pattern with best bucket of 2 sessions, got %+v", p)
	}
}

func TestAttentionDeclinePattern(t *testing.T) {
	// Newest first: the 3 newest average 2.0, the 3 oldest average 3.0.
	sessions := []store.Session{
		session(2.0, 5, at(10, 0)),
		session(2.0, 5, at(10, 1)),
		session(2.0, 5, at(10, 2)),
		session(3.0, 5, at(10, 3)),
		session(3.0, 5, at(10, 4)),
		session(3.0, 5, at(10, 5)),
	}

	p := attentionDeclinePattern(sessions)
	if p == nil {
		t.Fatal("expected an attention decline pattern")
	}
	if p.Pattern != PatternAttentionDecline {
		t.Errorf("Pattern = %s, want %s", p.Pattern, PatternAttentionDecline)
	}
	if p.Confidence != 80 {
		t.Errorf("Confidence = %f, want 80", p.Confidence)
	}
	if p.Impact != ImpactNegative {
		t.Errorf("Impact = %s, want negative", p.Impact)
	}
}

func TestAttentionDeclinePattern_Boundaries(t *testing.T) {
	t.Run("needs five sessions", func(t *testing.T) {
		sessions := []store.Session{
			session(1, 5, at(10, 0)),
			session(1, 5, at(10, 1)),
			session(3, 5, at(10, 2)),
			session(3, 5, at(10, 3)),
		}
		if p := attentionDeclinePattern(sessions); p != nil {
			t.Errorf("expected no pattern with 4 sessions, got %+v", p)
		}
	})

	t.Run("small gap does not fire", func(t *testing.T) {
		sessions := []store.Session{
			session(2.5, 5, at(10, 0)),
			session(2.5, 5, at(10, 1)),
			session(2.5, 5, at(10, 2)),
			session(3.0, 5, at(10, 3)),
			session(3.0, 5, at(10, 4)),
			session(3.0, 5, at(10, 5)),
		}
		if p := attentionDeclinePattern(sessions); p != nil {
			t.Errorf("expected no pattern at gap 0.5, got %+v", p)
		}
	})
}

func TestDetectPatterns_Empty(t *testing.T) {
	if got := DetectPatterns(nil); len(got) != 0 {
		t.Errorf("patterns = %v, want none", got)
	}
}
