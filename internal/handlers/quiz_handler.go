package handlers

import (
	"net/http"

	"aurora/internal/middleware"
	"aurora/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var in service.QuizInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quiz, err := h.Service.CreateQuiz(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	page, limit := pagination(c)
	quizzes, total, err := h.Service.ListQuizzes(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes, "total": total, "page": page})
}

func (h *QuizHandler) ListMine(c *gin.Context) {
	page, limit := pagination(c)
	quizzes, total, err := h.Service.ListMine(c.Request.Context(), middleware.CallerFrom(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes, "total": total, "page": page})
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, questions, err := h.Service.GetQuiz(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quiz": quiz, "questions": questions})
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	var in service.QuizInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quiz, err := h.Service.UpdateQuiz(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	if err := h.Service.DeleteQuiz(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
