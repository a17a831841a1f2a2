package quiz

import (
	"context"
	"fmt"
)

// Purpose tags LLM requests made by the generator in the event log.
const Purpose = "quiz-question"

// Question is a generated multiple-choice question.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Generator produces quiz questions.
type Generator interface {
	// Generate returns a validated question for question number n.
	Generate(ctx context.Context, n int64) (*Question, error)
}

// ExhaustedError is returned when every attempt failed. It unwraps to the
// last attempt's error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("error prompting ai: %v", e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }
