package handlers

import (
	"net/http"

	"aurora/internal/middleware"
	"aurora/internal/service"

	"github.com/gin-gonic/gin"
)

type FlashcardHandler struct {
	Service *service.FlashcardService
}

func NewFlashcardHandler(s *service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{Service: s}
}

func (h *FlashcardHandler) CreateFlashcard(c *gin.Context) {
	var in service.FlashcardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	card, err := h.Service.CreateFlashcard(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *FlashcardHandler) ListFlashcards(c *gin.Context) {
	page, limit := pagination(c)
	cards, total, err := h.Service.ListMine(c.Request.Context(), middleware.CallerFrom(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flashcards": cards, "total": total, "page": page})
}

func (h *FlashcardHandler) GetFlashcard(c *gin.Context) {
	card, err := h.Service.GetFlashcard(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *FlashcardHandler) UpdateFlashcard(c *gin.Context) {
	var in service.FlashcardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	card, err := h.Service.UpdateFlashcard(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *FlashcardHandler) DeleteFlashcard(c *gin.Context) {
	if err := h.Service.DeleteFlashcard(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
