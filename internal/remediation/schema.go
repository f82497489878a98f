package remediation

import "tutorbrain/internal/llm"

func questionListSchema(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": desc,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "The question text, plain ASCII",
				},
				"answer": map[string]any{
					"type":        "string",
					"description": "The correct answer",
				},
				"explanation": map[string]any{
					"type":        "string",
					"description": "Brief explanation of the answer",
				},
			},
			"required":             []any{"text", "answer", "explanation"},
			"additionalProperties": false,
		},
	}
}

// RemedialQuizSchema defines the JSON schema for remedial quiz generation.
var RemedialQuizSchema = &llm.Schema{
	Name:        "remedial-quiz",
	Description: "A short remedial quiz targeting a struggling skill",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short quiz title (3-8 words)",
			},
			"questions": questionListSchema("3-5 questions, easiest first"),
		},
		"required":             []any{"title", "questions"},
		"additionalProperties": false,
	},
}

// ConceptReteachSchema defines the JSON schema for concept re-teaching.
var ConceptReteachSchema = &llm.Schema{
	Name:        "concept-reteach",
	Description: "A fresh explanation of a concept the student is stuck on",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title for the lesson (3-8 words)",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Clear, age-appropriate explanation of the concept (3-5 sentences)",
			},
			"worked_example": map[string]any{
				"type":        "string",
				"description": "Step-by-step solution to an example problem, with numbered steps",
			},
			"questions": questionListSchema("Exactly 1 easy practice question"),
		},
		"required":             []any{"title", "explanation", "worked_example", "questions"},
		"additionalProperties": false,
	},
}

// PrerequisiteCheckSchema defines the JSON schema for prerequisite probes.
var PrerequisiteCheckSchema = &llm.Schema{
	Name:        "prerequisite-check",
	Description: "Probe questions covering the prerequisites of a skill",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title naming the prerequisite area",
			},
			"questions": questionListSchema("2-4 questions, one per prerequisite concept"),
		},
		"required":             []any{"title", "questions"},
		"additionalProperties": false,
	},
}
