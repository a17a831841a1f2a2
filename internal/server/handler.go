package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/framequiz/internal/llm"
	"github.com/abhisek/framequiz/internal/quiz"
)

// QuestionHandler serves generated quiz questions.
type QuestionHandler struct {
	gen   quiz.Generator
	model string
	log   *zap.Logger
}

// NewQuestionHandler creates a handler backed by gen. model is reported by
// the health check.
func NewQuestionHandler(gen quiz.Generator, model string, log *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		gen:   gen,
		model: model,
		log:   log.With(zap.String("handler", "QuestionHandler")),
	}
}

// GET /api/v1/questions/:id
// Generate a question whose tone and topic are picked by id.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	n, verr := quiz.ParseNumber("id", c.Param("id"))
	if verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr})
		return
	}

	ctx := llm.WithRequestID(c.Request.Context(), RequestID(c))
	q, err := h.gen.Generate(ctx, n)
	if err != nil {
		if c.Request.Context().Err() != nil {
			h.log.Info("client went away", zap.Int64("question", n), zap.String("request_id", RequestID(c)))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request canceled"})
			return
		}

		var exhausted *quiz.ExhaustedError
		if errors.As(err, &exhausted) {
			h.log.Error("question generation exhausted",
				zap.Int64("question", n),
				zap.Int("attempts", exhausted.Attempts),
				zap.String("request_id", RequestID(c)),
				zap.Error(err),
			)
		} else {
			h.log.Error("question generation failed",
				zap.Int64("question", n),
				zap.String("request_id", RequestID(c)),
				zap.Error(err),
			)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, q)
}

// GET /healthz
func (h *QuestionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": h.model})
}
