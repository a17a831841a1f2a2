package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/framequiz/internal/llm"
)

const taskPrompt = "You are administering a multiple-choice quiz to help the user determine which Web Development framework they should use. The question and possible options you provide should resemble a personality test."

const formatPrompt = `Respond only with a single question and a set of 4 possible options. Your response must be valid JSON, with the schema {{ "question": string, "options": ["option1", "option2", "option3", "option4"] }}`

// BuildMessages returns the prompt for question number n. The result depends
// only on n and the catalog.
func BuildMessages(c *Catalog, n int64) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: taskPrompt},
		{Role: llm.RoleSystem, Content: fmt.Sprintf("Your questions and options should have the following tone: %s", c.Tone(n))},
		{Role: llm.RoleSystem, Content: fmt.Sprintf("Your response must contain some reference to Web Development frameworks like %s", strings.Join(c.Frameworks, ", "))},
		{Role: llm.RoleSystem, Content: formatPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Provide a question regarding %s to help me determine which JavaScript framework I should use.", c.Reason(n))},
	}
}
