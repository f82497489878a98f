package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorbrain/internal/skills"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fp(v float64) *float64 { return &v }

func TestAttemptRepo_AppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := &QuestionAttempt{
		StudentID:  "amy",
		SessionID:  "sess-1",
		SkillID:    "fractions",
		Result:     Correct,
		Confidence: ConfidenceHigh,
		Reasoning:  fp(4.5),
		TimeSecs:   fp(12),
		Style:      StyleNormal,
	}
	require.NoError(t, s.Attempts().Append(ctx, first))
	assert.NotZero(t, first.ID)

	second := &QuestionAttempt{
		StudentID:  "amy",
		SessionID:  "sess-1",
		SkillID:    "fractions",
		Result:     Incorrect,
		Confidence: ConfidenceLow,
		Style:      StyleGuess,
	}
	require.NoError(t, s.Attempts().Append(ctx, second))

	got, err := s.Attempts().RecentBySkill(ctx, "fractions", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, Incorrect, got[0].Result)
	assert.Nil(t, got[0].Reasoning)
	assert.Nil(t, got[0].TimeSecs)

	assert.Equal(t, first.ID, got[1].ID)
	require.NotNil(t, got[1].Reasoning)
	assert.InDelta(t, 4.5, *got[1].Reasoning, 1e-9)

	bySession, err := s.Attempts().RecentBySession(ctx, "sess-1", 1)
	require.NoError(t, err)
	require.Len(t, bySession, 1)
	assert.Equal(t, second.ID, bySession[0].ID)
}

func TestSessionRepo_RecentByStudentWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	recent := &Session{
		ID: "sess-new", StudentID: "amy", SkillID: "fractions",
		MasteryDelta: 4, Attempted: 5, Correct: 4, AvgReasoning: 3.5,
		Attention: AttentionStable, Timestamp: time.Now().AddDate(0, 0, -1),
	}
	old := &Session{
		ID: "sess-old", StudentID: "amy", SkillID: "fractions",
		MasteryDelta: 2, Attempted: 5, Correct: 3, AvgReasoning: 3.0,
		Attention: AttentionStable, Timestamp: time.Now().AddDate(0, 0, -30),
	}
	require.NoError(t, s.Sessions().Append(ctx, recent))
	require.NoError(t, s.Sessions().Append(ctx, old))

	got, err := s.Sessions().RecentByStudent(ctx, "amy", 14)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sess-new", got[0].ID)
	assert.Equal(t, AttentionStable, got[0].Attention)
}

func TestSkillRepo_Upsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &SkillRecord{
		ID: "fractions", StudentID: "amy",
		Domain: skills.DomainFractions, Mastery: 25, TotalAttempts: 15,
	}
	require.NoError(t, s.Skills().Upsert(ctx, rec))

	rec.Mastery = 40
	rec.TotalAttempts = 20
	now := time.Now().UTC().Truncate(time.Second)
	rec.LastSeen = &now
	require.NoError(t, s.Skills().Upsert(ctx, rec))

	got, err := s.Skills().ByStudent(ctx, "amy")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 40.0, got[0].Mastery)
	assert.Equal(t, 20, got[0].TotalAttempts)
	require.NotNil(t, got[0].LastSeen)
	assert.True(t, got[0].LastSeen.Equal(now))
}

func TestNoteRepo_DedupKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n := &Note{
		StudentID:  "amy",
		Text:       "Three wrong answers in a row",
		SkillID:    "fractions",
		SessionID:  "sess-1",
		Type:       NoteIntervention,
		Priority:   NoteUrgent,
		Actionable: true,
		DedupKey:   "three_wrong_in_row:sess-1:2",
	}
	require.NoError(t, s.Notes().Insert(ctx, n))

	dup := *n
	dup.ID = ""
	require.NoError(t, s.Notes().Insert(ctx, &dup))

	got, err := s.Notes().RecentByStudent(ctx, "amy", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1, "dedup key must collapse repeated inserts")
	assert.True(t, got[0].Actionable)
}

func TestNoteRepo_EmptyDedupKeysDoNotCollide(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for range 2 {
		n := &Note{
			StudentID: "amy",
			Text:      "weekly observation",
			Type:      NoteInsight,
			Priority:  NoteLow,
		}
		require.NoError(t, s.Notes().Insert(ctx, n))
	}

	got, err := s.Notes().RecentByStudent(ctx, "amy", 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLLMEventRepo_AppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.LLMEvents().Append(ctx, &LLMRequestEvent{
		Provider: "mock", Model: "mock", Purpose: "remedial_quiz",
		InputTokens: 100, OutputTokens: 50, LatencyMs: 12, Success: true,
	}))
	require.NoError(t, s.LLMEvents().Append(ctx, &LLMRequestEvent{
		Provider: "mock", Model: "mock", Purpose: "concept_reteach",
		Success: false, ErrorMessage: "rate limited",
	}))

	got, err := s.LLMEvents().Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "concept_reteach", got[0].Purpose)
	assert.False(t, got[0].Success)
	assert.Equal(t, "remedial_quiz", got[1].Purpose)
	assert.True(t, got[1].Success)
}
