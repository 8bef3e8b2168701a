package handlers

import (
	"net/http"

	"aurora/internal/middleware"
	"aurora/internal/service"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	Service *service.NoteService
}

func NewNoteHandler(s *service.NoteService) *NoteHandler {
	return &NoteHandler{Service: s}
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	var in service.NoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := h.Service.CreateNote(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) ListNotes(c *gin.Context) {
	page, limit := pagination(c)
	notes, total, err := h.Service.ListMine(c.Request.Context(), middleware.CallerFrom(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes, "total": total, "page": page})
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	note, err := h.Service.GetNote(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var in service.NoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := h.Service.UpdateNote(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.Service.DeleteNote(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
