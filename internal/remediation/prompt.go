package remediation

import (
	"fmt"
	"strings"

	"tutorbrain/internal/brain"
)

const tutorSystemPrompt = `You are a patient, encouraging tutor for children in grades 3-5. A student needs targeted remedial material based on an analysis of their recent work.`

func buildUserMessage(iv brain.Intervention) string {
	var b strings.Builder

	if iv.SkillID != "" {
		b.WriteString(fmt.Sprintf("Skill: %s\n", iv.SkillID))
	}
	b.WriteString(fmt.Sprintf("Why this is needed: %s\n", iv.Reason))
	b.WriteString(fmt.Sprintf("Recommended action: %s\n", iv.SuggestedAction))

	switch iv.Type {
	case brain.InterventionRemedialQuiz:
		b.WriteString(`
Instructions:
Create a short remedial quiz of 3-5 questions for this skill:
1. Start with the easiest question and get gradually harder.
2. Each question must have a single correct answer and a brief explanation.
3. Use plain ASCII text for all math. No LaTeX, no Unicode symbols. Use / for fractions, * for multiplication.`)
	case brain.InterventionConceptReteach:
		b.WriteString(`
Instructions:
Re-teach the concept from scratch, assuming the previous explanation did not land:
1. Explain the concept clearly in 3-5 sentences using a different angle or analogy than a textbook would.
2. Show one complete worked example with numbered steps.
3. Create exactly one easy practice question with its answer and a brief explanation.
4. Use plain ASCII text for all math. No LaTeX, no Unicode symbols.`)
	case brain.InterventionPrerequisiteCheck:
		b.WriteString(`
Instructions:
The student may be missing prerequisite knowledge for this skill:
1. Identify 2-4 prerequisite concepts this skill depends on.
2. Write one short probe question per prerequisite, each with a single correct answer and a brief explanation.
3. Order the questions from most fundamental to most advanced.
4. Use plain ASCII text for all math.`)
	}

	return b.String()
}
