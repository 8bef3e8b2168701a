package handlers

import (
	"fmt"
	"net/http"

	"aurora/internal/llm"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	Client *llm.Client
}

func NewAIHandler(client *llm.Client) *AIHandler {
	return &AIHandler{Client: client}
}

type aiRequest struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
	Count int    `json:"count"`
}

func (in *aiRequest) validate() error {
	if in.Topic == "" && in.Text == "" {
		return fmt.Errorf("provide either topic or text content")
	}
	return nil
}

func (h *AIHandler) available(c *gin.Context) bool {
	if h.Client == nil || !h.Client.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI generation is not configured"})
		return false
	}
	return true
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// GenerateNotes asks the model for structured study notes on a topic or text.
func (h *AIHandler) GenerateNotes(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var in aiRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := in.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prompt := fmt.Sprintf(`Create clear, structured study notes for:
Topic: %s

Source content (if provided):
%s

Notes must be:
- Well structured
- Bullet points
- Easy for a student to revise
- Include key concepts, explanations, steps, examples`,
		orNone(in.Topic), orNone(in.Text))

	result, err := h.Client.Generate(c.Request.Context(), prompt, 800)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *AIHandler) GenerateFlashcards(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var in aiRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := in.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prompt := fmt.Sprintf(`Create a list of flashcards based on the following topic or content.

Topic: %s
Source text:
%s

Format output EXACTLY like this JSON:
[
  { "front": "What is X?", "back": "X means..." },
  { "front": "Why does Y happen?", "back": "Because..." }
]`,
		orNone(in.Topic), orNone(in.Text))

	result, err := h.Client.Generate(c.Request.Context(), prompt, 500)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *AIHandler) GenerateQuiz(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var in aiRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := in.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	count := in.Count
	if count <= 0 {
		count = 10
	}
	prompt := fmt.Sprintf(`Generate %d multiple-choice questions (MCQs) based on this topic or text.

Topic: %s
Content: %s

Format strictly in JSON like:
[
  {
    "question": "What is ...?",
    "options": ["A", "B", "C", "D"],
    "correctAnswer": "B"
  }
]

Make sure:
- Options are short
- Correct answer is one of the options
- Questions test real understanding`,
		count, orNone(in.Topic), orNone(in.Text))

	result, err := h.Client.Generate(c.Request.Context(), prompt, 800)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}
