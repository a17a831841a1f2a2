package quiz

import "github.com/abhisek/framequiz/internal/llm"

// QuestionSchema defines the JSON shape of a generated quiz question.
// Extra keys are tolerated and empty strings pass.
var QuestionSchema = &llm.Schema{
	Name:        "quiz-question",
	Description: "A personality-test style question with exactly four answer options",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question shown to the user",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    4,
				"maxItems":    4,
				"description": "Exactly 4 possible answers",
			},
		},
		"required": []any{"question", "options"},
	},
}
