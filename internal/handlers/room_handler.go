package handlers

import (
	"net/http"

	"aurora/internal/event"
	"aurora/internal/middleware"
	"aurora/internal/service"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	Service   *service.RoomService
	Publisher *event.Publisher
}

func NewRoomHandler(s *service.RoomService, p *event.Publisher) *RoomHandler {
	return &RoomHandler{Service: s, Publisher: p}
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var in service.CreateRoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := h.Service.CreateRoom(c.Request.Context(), middleware.CallerFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Publisher != nil {
		h.Publisher.Publish(event.RoomCreated, gin.H{"room_id": room.ID, "code": room.Code})
	}
	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) ListAvailable(c *gin.Context) {
	rooms, err := h.Service.ListAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) ListMine(c *gin.Context) {
	rooms, err := h.Service.ListMine(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

type joinRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *RoomHandler) JoinByCode(c *gin.Context) {
	var in joinRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller := middleware.CallerFrom(c)
	room, err := h.Service.JoinByCode(c.Request.Context(), caller, in.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Publisher != nil {
		h.Publisher.Publish(event.RoomJoined, gin.H{"room_id": room.ID, "user_id": caller.UserID})
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) ToggleActive(c *gin.Context) {
	active, err := h.Service.ToggleActive(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Publisher != nil {
		h.Publisher.Publish(event.RoomToggled, gin.H{"room_id": c.Param("id"), "active": active})
	}
	c.JSON(http.StatusOK, gin.H{"active": active})
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	if err := h.Service.DeleteRoom(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
