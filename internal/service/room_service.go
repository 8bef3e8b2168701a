package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"aurora/internal/models"
)

// Join codes avoid ambiguous characters so they survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 6

// maxCodeRetries bounds the regenerate-and-retry loop compensating for the
// race between code generation and insert under concurrent creation.
const maxCodeRetries = 5

type RoomService struct {
	rooms    RoomStore
	attempts AttemptStore
	quizzes  QuizCatalog
	now      func() time.Time
}

func NewRoomService(rooms RoomStore, attempts AttemptStore, quizzes QuizCatalog) *RoomService {
	return &RoomService{rooms: rooms, attempts: attempts, quizzes: quizzes, now: time.Now}
}

type CreateRoomInput struct {
	QuizID           string     `json:"quiz_id" binding:"required"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	MaxAttempts      int        `json:"max_attempts"`
	OpensAt          *time.Time `json:"opens_at"`
	ClosesAt         *time.Time `json:"closes_at"`
	Visibility       string     `json:"visibility"`
}

func (s *RoomService) CreateRoom(ctx context.Context, caller models.Caller, in CreateRoomInput) (*models.QuizRoom, error) {
	if in.TimeLimitMinutes < 0 {
		return nil, fmt.Errorf("%w: time limit must be positive", models.ErrValidation)
	}
	if in.MaxAttempts == 0 {
		in.MaxAttempts = 1
	}
	if in.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be at least 1", models.ErrValidation)
	}
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}
	if in.Visibility != models.VisibilityPublic && in.Visibility != models.VisibilityPrivate {
		return nil, fmt.Errorf("%w: visibility must be public or private", models.ErrValidation)
	}
	if in.OpensAt != nil && in.ClosesAt != nil && !in.OpensAt.Before(*in.ClosesAt) {
		return nil, fmt.Errorf("%w: opens_at must be before closes_at", models.ErrValidation)
	}
	if _, _, err := s.quizzes.GetQuizWithoutAnswerKey(ctx, in.QuizID); err != nil {
		return nil, err
	}

	room := &models.QuizRoom{
		QuizID:           in.QuizID,
		LecturerID:       caller.UserID,
		TimeLimitMinutes: in.TimeLimitMinutes,
		MaxAttempts:      in.MaxAttempts,
		OpensAt:          in.OpensAt,
		ClosesAt:         in.ClosesAt,
		Active:           true,
		Visibility:       in.Visibility,
	}

	// The unique index on code is the real uniqueness guarantee; on a
	// duplicate-key insert we draw a fresh code and try again.
	for i := 0; i < maxCodeRetries; i++ {
		code, err := newJoinCode()
		if err != nil {
			return nil, fmt.Errorf("generate join code: %v: %w", err, models.ErrStorage)
		}
		room.Code = code
		err = s.rooms.Insert(ctx, room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: could not allocate a unique join code", models.ErrConflict)
}

// ToggleActive flips the lecturer-controlled lock. In-progress attempts are
// not terminated; they only fail at submit time while the room stays locked.
func (s *RoomService) ToggleActive(ctx context.Context, caller models.Caller, roomID string) (bool, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	if !canManageRoom(caller, room) {
		return false, fmt.Errorf("%w: not the room owner", models.ErrForbidden)
	}
	next := !room.Active
	if err := s.rooms.SetActive(ctx, roomID, next); err != nil {
		return false, err
	}
	return next, nil
}

// JoinByCode resolves a join code to a room id. Private rooms record the
// caller as a participant; joining twice is a no-op. No attempt is started.
// The participant roster lists other students' user ids, so the returned
// room only carries it for callers who manage the room.
func (s *RoomService) JoinByCode(ctx context.Context, caller models.Caller, code string) (*models.QuizRoom, error) {
	room, err := s.rooms.FindActiveByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if err := room.CheckWindow(s.now()); err != nil {
		return nil, err
	}
	if room.Visibility == models.VisibilityPrivate && !room.HasParticipant(caller.UserID) {
		if err := s.rooms.AddParticipant(ctx, room.ID, caller.UserID); err != nil {
			return nil, err
		}
		room.Participants = append(room.Participants, caller.UserID)
	}
	if !canManageRoom(caller, room) {
		room.Participants = nil
	}
	return room, nil
}

// ListAvailable returns public rooms that are active and inside their window.
func (s *RoomService) ListAvailable(ctx context.Context) ([]models.QuizRoom, error) {
	return s.rooms.ListOpenPublic(ctx, s.now())
}

func (s *RoomService) ListMine(ctx context.Context, caller models.Caller) ([]models.QuizRoom, error) {
	return s.rooms.ListByLecturer(ctx, caller.UserID)
}

// DeleteRoom refuses to remove a room once any attempt references it, so
// leaderboards and reports keep their audit trail.
func (s *RoomService) DeleteRoom(ctx context.Context, caller models.Caller, roomID string) error {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if !canManageRoom(caller, room) {
		return fmt.Errorf("%w: not the room owner", models.ErrForbidden)
	}
	n, err := s.attempts.CountByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: room has recorded attempts", models.ErrConflict)
	}
	return s.rooms.Delete(ctx, roomID)
}

// canManageRoom is the single mutation capability check: room owner or admin.
func canManageRoom(caller models.Caller, room *models.QuizRoom) bool {
	return caller.IsAdmin() || room.LecturerID == caller.UserID
}

func newJoinCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
