package quiz

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/abhisek/framequiz/internal/llm"
)

// openingFenceRe matches a leading fence with its language tag, as in
// ```json. Tags are only recognised on the opening fence.
var openingFenceRe = regexp.MustCompile("^\\s*```[A-Za-z][\\w+-]*")

// StripFences removes markdown code fence markup from model output.
func StripFences(s string) string {
	s = openingFenceRe.ReplaceAllString(s, "")
	return strings.TrimSpace(strings.ReplaceAll(s, "```", ""))
}

// ParseQuestion strips fences from raw model output, validates it against
// QuestionSchema and decodes it. Any failure is an *llm.ErrInvalidResponse.
func ParseQuestion(raw []byte) (Question, error) {
	cleaned := json.RawMessage(StripFences(string(raw)))
	if err := llm.ValidateJSON(QuestionSchema, cleaned); err != nil {
		return Question{}, err
	}

	var q Question
	if err := json.Unmarshal(cleaned, &q); err != nil {
		return Question{}, &llm.ErrInvalidResponse{Content: cleaned, Err: err}
	}
	return q, nil
}
