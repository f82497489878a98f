package remediation

import (
	"encoding/json"

	"tutorbrain/internal/brain"
)

// GeneratedContent is student-facing material realized from a decided
// intervention. Only remedial_quiz, concept_reteach and
// prerequisite_check produce content; the other intervention types are
// pure recommendations.
type GeneratedContent struct {
	Kind          brain.InterventionType
	Title         string
	Explanation   string
	WorkedExample string
	Questions     []Question
}

// Question is one generated practice or probe question.
type Question struct {
	Text        string
	Answer      string
	Explanation string
}

// parseOutcome is the tagged result of decoding model output. Exactly
// one branch is populated: Content on success, Raw on parse failure.
type parseOutcome struct {
	Content *GeneratedContent
	Raw     json.RawMessage
}

func (o parseOutcome) parsed() bool { return o.Content != nil }
