package triggers

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutorbrain/internal/brain"
	"tutorbrain/internal/remediation"
	"tutorbrain/internal/store"
)

func fp(v float64) *float64 { return &v }

// fakeNotes emulates the store's insert-or-ignore dedup behavior.
type fakeNotes struct {
	notes []store.Note
	seen  map[string]bool
	err   error
}

func newFakeNotes() *fakeNotes {
	return &fakeNotes{seen: map[string]bool{}}
}

func (f *fakeNotes) Insert(_ context.Context, n *store.Note) error {
	if f.err != nil {
		return f.err
	}
	if n.DedupKey != "" {
		if f.seen[n.DedupKey] {
			return nil
		}
		f.seen[n.DedupKey] = true
	}
	f.notes = append(f.notes, *n)
	return nil
}

type fakeAttempts struct {
	attempts []store.QuestionAttempt
	err      error
}

func (f *fakeAttempts) RecentBySession(_ context.Context, _ string, _ int) ([]store.QuestionAttempt, error) {
	return f.attempts, f.err
}

type fakeAnalyzer struct {
	state *brain.StudentState
	calls int
}

func (f *fakeAnalyzer) AnalyzeStudentAt(_ context.Context, studentID string, now time.Time) *brain.StudentState {
	f.calls++
	if f.state != nil {
		return f.state
	}
	return &brain.StudentState{StudentID: studentID, GeneratedAt: now}
}

type fakeGenerator struct {
	content *remediation.GeneratedContent
	calls   []brain.Intervention
}

func (f *fakeGenerator) GenerateIntervention(_ context.Context, iv brain.Intervention, _ string) *remediation.GeneratedContent {
	f.calls = append(f.calls, iv)
	return f.content
}

func reflexAttempt(result store.Correctness, conf store.Confidence, timeSecs *float64) store.QuestionAttempt {
	return store.QuestionAttempt{
		SkillID:    "fractions",
		Result:     result,
		Confidence: conf,
		TimeSecs:   timeSecs,
		Style:      store.StyleNormal,
		Timestamp:  time.Now(),
	}
}

func reflexService(notes *fakeNotes, attempts *fakeAttempts, gen Generator) *Service {
	return NewService(notes, attempts, &fakeAnalyzer{}, gen, nil)
}

func TestReflex_ThreeWrongInRow(t *testing.T) {
	notes := newFakeNotes()
	gen := &fakeGenerator{content: &remediation.GeneratedContent{
		Kind:  brain.InterventionConceptReteach,
		Title: "Fractions, another way",
	}}
	attempts := &fakeAttempts{attempts: []store.QuestionAttempt{
		reflexAttempt(store.Incorrect, store.ConfidenceHigh, nil),
		reflexAttempt(store.Incorrect, store.ConfidenceLow, nil),
	}}
	svc := reflexService(notes, attempts, gen)

	svc.CheckImmediateTriggers(context.Background(), AttemptContext{
		StudentID:    "amy",
		SessionID:    "sess-1",
		AttemptIndex: 2,
		Attempt:      reflexAttempt(store.Incorrect, store.ConfidenceHigh, nil),
	})

	if len(notes.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes.notes))
	}
	n := notes.notes[0]
	if n.Type != store.NoteIntervention || n.Priority != store.NoteUrgent || !n.Actionable {
		t.Errorf("note = %+v, want urgent actionable intervention", n)
	}
	if n.DedupKey != "three_wrong_in_row:sess-1:2" {
		t.Errorf("DedupKey = %s", n.DedupKey)
	}

	// The critical rule requests an eager reteach.
	if len(gen.calls) != 1 {
		t.Fatalf("generator calls = %d, want 1", len(gen.calls))
	}
	if gen.calls[0].Type != brain.InterventionConceptReteach || gen.calls[0].Priority != brain.PriorityUrgent {
		t.Errorf("generated intervention = %+v, want urgent concept_reteach", gen.calls[0])
	}
	if gen.calls[0].SkillID != "fractions" {
		t.Errorf("SkillID = %s, want fractions", gen.calls[0].SkillID)
	}
}

func TestReflex_ThreeWrongNeedsTwoHighConfidence(t *testing.T) {
	notes := newFakeNotes()
	gen := &fakeGenerator{}
	attempts := &fakeAttempts{attempts: []store.QuestionAttempt{
		reflexAttempt(store.Incorrect, store.ConfidenceLow, nil),
		reflexAttempt(store.Incorrect, store.ConfidenceLow, nil),
	}}
	svc := reflexService(notes, attempts, gen)

	svc.CheckImmediateTriggers(context.Background(), AttemptContext{
		StudentID: "amy", SessionID: "sess-1", AttemptIndex: 2,
		Attempt: reflexAttempt(store.Incorrect, store.ConfidenceHigh, nil),
	})

	if len(notes.notes) != 0 {
		t.Errorf("notes = %v, want none with only 1 high-confidence miss", notes.notes)
	}
	if len(gen.calls) != 0 {
		t.Errorf("generator calls = %d, want 0", len(gen.calls))
	}
}

func TestReflex_RapidGuessing(t *testing.T) {
	notes := newFakeNotes()
	svc := reflexService(notes, &fakeAttempts{}, nil)

	svc.CheckImmediateTriggers(context.Background(), AttemptContext{
		StudentID: "amy", SessionID: "sess-1", AttemptIndex: 0,
		Attempt: reflexAttempt(store.Incorrect, store.ConfidenceLow, fp(2.1)),
	})

	if len(notes.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes.notes))
	}
	if notes.notes[0].Type != store.NotePattern || notes.notes[0].Priority != store.NoteHigh {
		t.Errorf("note = %+v, want high pattern note", notes.notes[0])
	}
}

func TestReflex_RapidGuessingNeedsIncorrect(t *testing.T) {
	notes := newFakeNotes()
	svc := reflexService(notes, &fakeAttempts{}, nil)

	svc.CheckImmediateTriggers(context.Background(), AttemptContext{
		StudentID: "amy", SessionID: "sess-1", AttemptIndex: 0,
		Attempt: reflexAttempt(store.Correct, store.ConfidenceLow, fp(2.1)),
	})

	if len(notes.notes) != 0 {
		t.Errorf("notes = %v, want none for a fast correct answer", notes.notes)
	}
}

func TestReflex_UnusuallySlow(t *testing.T) {
	prior := []store.QuestionAttempt{
		reflexAttempt(store.Correct, store.ConfidenceLow, fp(10)),
		reflexAttempt(store.Correct, store.ConfidenceLow, fp(10)),
		reflexAttempt(store.Correct, store.ConfidenceLow, fp(10)),
	}
	notes := newFakeNotes()
	svc := reflexService(notes, &fakeAttempts{attempts: prior}, nil)

	svc.CheckImmediateTriggers(context.Background(), AttemptContext{
		StudentID: "amy", SessionID: "sess-1", AttemptIndex: 3,
		Attempt: reflexAttempt(store.Correct, store.ConfidenceLow, fp(60)),
	})

	if len(notes.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes.notes))
	}
	if notes.notes[0].Type != store.NoteInsight || notes.notes[0].Priority != store.NoteMedium {
		t.Errorf("note = %+v, want medium insight note", notes.notes[0])
	}
}

func TestReflex_UnusuallySlowNeedsRollingAverage(t *testing.T) {
	// Only two timed prior attempts: no rolling average yet.
	prior := []store.QuestionAttempt{
		reflexAttempt(store.Correct, store.ConfidenceLow, fp(10)),
		reflexAttempt(store.Correct, store.ConfidenceLow, fp(10)),
		reflexAttempt(store.Correct, store.ConfidenceLow, nil),
	}
	notes := newFakeNotes()
	svc := reflexService(notes, &fakeAttempts{attempts: prior}, nil)

	svc.CheckImmediateTriggers(context.Background(), AttemptContext{
		StudentID: "amy", SessionID: "sess-1", AttemptIndex: 3,
		Attempt: reflexAttempt(store.Correct, store.ConfidenceLow, fp(60)),
	})

	if len(notes.notes) != 0 {
		t.Errorf("notes = %v, want none without a rolling average", notes.notes)
	}
}

func TestReflex_PerfectStreakBroken(t *testing.T) {
	var prior []store.QuestionAttempt
	for range 5 {
		prior = append(prior, reflexAttempt(store.Correct, store.ConfidenceLow, nil))
	}
	notes := newFakeNotes()
	svc := reflexService(notes, &fakeAttempts{attempts: prior}, nil)

	svc.CheckImmediateTriggers(context.Background(), AttemptContext{
		StudentID: "amy", SessionID: "sess-1", AttemptIndex: 5,
		Attempt: reflexAttempt(store.Incorrect, store.ConfidenceLow, nil),
	})

	if len(notes.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes.notes))
	}
	if notes.notes[0].DedupKey != "perfect_streak_broken:sess-1:5" {
		t.Errorf("DedupKey = %s", notes.notes[0].DedupKey)
	}
}

func TestReflex_RepeatedEvaluationDeduplicates(t *testing.T) {
	notes := newFakeNotes()
	svc := reflexService(notes, &fakeAttempts{}, nil)
	ac := AttemptContext{
		StudentID: "amy", SessionID: "sess-1", AttemptIndex: 0,
		Attempt: reflexAttempt(store.Incorrect, store.ConfidenceLow, fp(1)),
	}

	svc.CheckImmediateTriggers(context.Background(), ac)
	svc.CheckImmediateTriggers(context.Background(), ac)

	if len(notes.notes) != 1 {
		t.Errorf("notes = %d, want 1 after duplicate evaluation", len(notes.notes))
	}
}

func TestReflex_StoreFailureDoesNotPanic(t *testing.T) {
	notes := newFakeNotes()
	notes.err = errors.New("db down")
	svc := reflexService(notes, &fakeAttempts{err: errors.New("db down")}, nil)

	svc.CheckImmediateTriggers(context.Background(), AttemptContext{
		StudentID: "amy", SessionID: "sess-1", AttemptIndex: 0,
		Attempt: reflexAttempt(store.Incorrect, store.ConfidenceLow, fp(1)),
	})
}

func closedSession(delta float64, attempted int) SessionContext {
	return SessionContext{
		Session: store.Session{
			ID:           "sess-1",
			StudentID:    "amy",
			SkillID:      "fractions",
			MasteryDelta: delta,
			Attempted:    attempted,
			Timestamp:    time.Now(),
		},
	}
}

func TestSession_NoProgressTriggersRecompute(t *testing.T) {
	notes := newFakeNotes()
	analyzer := &fakeAnalyzer{}
	svc := NewService(notes, &fakeAttempts{}, analyzer, nil, nil)

	svc.CheckSessionTriggers(context.Background(), closedSession(0, 5))

	if len(notes.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes.notes))
	}
	n := notes.notes[0]
	if n.Type != store.NoteIntervention || n.Priority != store.NoteUrgent || !n.Actionable {
		t.Errorf("note = %+v, want urgent actionable intervention", n)
	}
	if n.DedupKey != "no_progress_in_session:sess-1" {
		t.Errorf("DedupKey = %s", n.DedupKey)
	}
	if analyzer.calls != 1 {
		t.Errorf("recompute calls = %d, want 1", analyzer.calls)
	}
}

func TestSession_NoProgressNeedsFiveAttempts(t *testing.T) {
	notes := newFakeNotes()
	analyzer := &fakeAnalyzer{}
	svc := NewService(notes, &fakeAttempts{}, analyzer, nil, nil)

	svc.CheckSessionTriggers(context.Background(), closedSession(0, 4))

	if len(notes.notes) != 0 || analyzer.calls != 0 {
		t.Errorf("notes = %d, recomputes = %d, want none", len(notes.notes), analyzer.calls)
	}
}

func TestSession_DecliningAttention(t *testing.T) {
	// Newest first: the last two attempts of the session are at the head.
	attempts := &fakeAttempts{attempts: []store.QuestionAttempt{
		{Reasoning: fp(2.0)},
		{Reasoning: fp(2.0)},
		{Reasoning: fp(4.0)},
		{Reasoning: fp(4.0)},
	}}
	notes := newFakeNotes()
	svc := NewService(notes, attempts, &fakeAnalyzer{}, nil, nil)

	svc.CheckSessionTriggers(context.Background(), closedSession(3, 4))

	if len(notes.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes.notes))
	}
	if notes.notes[0].Type != store.NotePattern || notes.notes[0].Priority != store.NoteHigh {
		t.Errorf("note = %+v, want high pattern note", notes.notes[0])
	}
}

func TestSession_DecliningAttentionSmallGap(t *testing.T) {
	attempts := &fakeAttempts{attempts: []store.QuestionAttempt{
		{Reasoning: fp(3.0)},
		{Reasoning: fp(3.0)},
		{Reasoning: fp(4.0)},
		{Reasoning: fp(4.0)},
	}}
	notes := newFakeNotes()
	svc := NewService(notes, attempts, &fakeAnalyzer{}, nil, nil)

	svc.CheckSessionTriggers(context.Background(), closedSession(3, 4))

	if len(notes.notes) != 0 {
		t.Errorf("notes = %v, want none at gap 1.0", notes.notes)
	}
}

func TestSession_MasteryThresholdReached(t *testing.T) {
	notes := newFakeNotes()
	svc := NewService(notes, &fakeAttempts{}, &fakeAnalyzer{}, nil, nil)

	sc := closedSession(8, 4)
	sc.OldMastery = 65
	sc.NewMastery = 72
	svc.CheckSessionTriggers(context.Background(), sc)

	if len(notes.notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes.notes))
	}
	if notes.notes[0].Type != store.NoteCelebration {
		t.Errorf("note type = %s, want celebration", notes.notes[0].Type)
	}
}

func TestSession_MasteryThresholdOnlyOnCrossing(t *testing.T) {
	notes := newFakeNotes()
	svc := NewService(notes, &fakeAttempts{}, &fakeAnalyzer{}, nil, nil)

	sc := closedSession(3, 4)
	sc.OldMastery = 75
	sc.NewMastery = 80
	svc.CheckSessionTriggers(context.Background(), sc)

	if len(notes.notes) != 0 {
		t.Errorf("notes = %v, want none when already above 70", notes.notes)
	}
}
