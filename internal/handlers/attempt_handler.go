package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"aurora/internal/event"
	"aurora/internal/middleware"
	"aurora/internal/report"
	"aurora/internal/service"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	Service     *service.AttemptService
	Leaderboard *service.LeaderboardService
	Publisher   *event.Publisher
}

func NewAttemptHandler(s *service.AttemptService, lb *service.LeaderboardService, p *event.Publisher) *AttemptHandler {
	return &AttemptHandler{Service: s, Leaderboard: lb, Publisher: p}
}

// StartAttempt opens or resumes the caller's attempt in a room.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	result, err := h.Service.Start(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Publisher != nil {
		h.Publisher.Publish(event.AttemptStarted, gin.H{
			"attempt_id": result.Attempt.ID,
			"room_id":    result.Attempt.RoomID,
			"user_id":    caller.UserID,
		})
	}
	c.JSON(http.StatusOK, result)
}

type submitRequest struct {
	Answers []service.AnswerInput `json:"answers"`
}

func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	var in submitRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Service.Submit(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), in.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Publisher != nil {
		h.Publisher.Publish(event.AttemptSubmitted, gin.H{
			"attempt_id": result.AttemptID,
			"score":      result.Score,
			"total":      result.Total,
		})
	}
	c.JSON(http.StatusOK, result)
}

func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attempt, err := h.Service.GetAttempt(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

func (h *AttemptHandler) ListMyAttempts(c *gin.Context) {
	attempts, err := h.Service.ListMine(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

func (h *AttemptHandler) DeleteAttempt(c *gin.Context) {
	if err := h.Service.DeleteAttempt(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GetLeaderboard ranks finalized attempts for a room.
func (h *AttemptHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.Leaderboard.Rank(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DownloadReport streams a finalized attempt as a PDF.
func (h *AttemptHandler) DownloadReport(c *gin.Context) {
	detail, err := h.Service.Detail(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	err = report.WriteAttemptPDF(&buf, report.AttemptReport{
		Attempt:     *detail.Attempt,
		StudentName: detail.StudentName,
		QuizTitle:   detail.QuizTitle,
		Questions:   detail.Questions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename(*detail.Attempt)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
