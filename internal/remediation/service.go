package remediation

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"tutorbrain/internal/brain"
	"tutorbrain/internal/llm"
)

// Service realizes decided interventions into student-facing content.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewService creates a content generation service.
func NewService(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, log: log}
}

// GenerateIntervention turns a decided intervention into generated
// content. Returns nil for non-generative intervention types, on
// generation failure, and on parse failure; the intervention itself
// remains valid either way.
func (s *Service) GenerateIntervention(ctx context.Context, iv brain.Intervention, studentID string) *GeneratedContent {
	schema, ok := schemaFor(iv.Type)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	ctx = llm.WithPurpose(ctx, string(iv.Type))

	req := llm.Request{
		System: tutorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(iv)},
		},
		Schema:      schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.log.Warn("content generation failed, keeping intervention without content",
			zap.String("student", studentID),
			zap.String("type", string(iv.Type)),
			zap.Error(err))
		return nil
	}

	outcome := parseContent(iv.Type, resp.Content)
	if !outcome.parsed() {
		s.log.Warn("generated content failed to parse, discarding",
			zap.String("student", studentID),
			zap.String("type", string(iv.Type)),
			zap.ByteString("raw", outcome.Raw))
		return nil
	}
	return outcome.Content
}

func schemaFor(t brain.InterventionType) (*llm.Schema, bool) {
	switch t {
	case brain.InterventionRemedialQuiz:
		return RemedialQuizSchema, true
	case brain.InterventionConceptReteach:
		return ConceptReteachSchema, true
	case brain.InterventionPrerequisiteCheck:
		return PrerequisiteCheckSchema, true
	default:
		return nil, false
	}
}

type contentOutput struct {
	Title         string           `json:"title"`
	Explanation   string           `json:"explanation"`
	WorkedExample string           `json:"worked_example"`
	Questions     []questionOutput `json:"questions"`
}

type questionOutput struct {
	Text        string `json:"text"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// parseContent decodes model output into a tagged outcome. Malformed
// JSON or content missing its required shape yields the ParseFailed
// branch with the raw text preserved for logging.
func parseContent(t brain.InterventionType, raw json.RawMessage) parseOutcome {
	var out contentOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return parseOutcome{Raw: raw}
	}
	if err := checkShape(t, out); err != nil {
		return parseOutcome{Raw: raw}
	}

	content := &GeneratedContent{
		Kind:          t,
		Title:         out.Title,
		Explanation:   out.Explanation,
		WorkedExample: out.WorkedExample,
	}
	for _, q := range out.Questions {
		content.Questions = append(content.Questions, Question{
			Text:        q.Text,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}
	return parseOutcome{Content: content}
}

func checkShape(t brain.InterventionType, out contentOutput) error {
	if out.Title == "" {
		return fmt.Errorf("missing title")
	}
	switch t {
	case brain.InterventionConceptReteach:
		if out.Explanation == "" || out.WorkedExample == "" {
			return fmt.Errorf("reteach content missing explanation or worked example")
		}
	case brain.InterventionRemedialQuiz, brain.InterventionPrerequisiteCheck:
		if len(out.Questions) == 0 {
			return fmt.Errorf("no questions in generated content")
		}
	}
	for _, q := range out.Questions {
		if q.Text == "" || q.Answer == "" {
			return fmt.Errorf("question missing text or answer")
		}
	}
	return nil
}
