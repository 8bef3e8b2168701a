package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"aurora/internal/models"
)

func newRoomFixture() (*RoomService, *fakeRoomStore, *fakeAttemptStore) {
	rooms := newFakeRoomStore()
	attempts := newFakeAttemptStore()
	catalog := newFakeCatalog()
	catalog.quizzes["quiz-1"] = &models.Quiz{ID: "quiz-1", Title: "Networking Basics"}
	svc := NewRoomService(rooms, attempts, catalog)
	return svc, rooms, attempts
}

var lecturer = models.Caller{UserID: "lect-1", Roles: []string{models.RoleLecturer}}
var student = models.Caller{UserID: "stud-1", Roles: []string{models.RoleStudent}}
var admin = models.Caller{UserID: "adm-1", Roles: []string{models.RoleAdmin}}

func TestCreateRoomDefaults(t *testing.T) {
	svc, _, _ := newRoomFixture()

	room, err := svc.CreateRoom(context.Background(), lecturer, CreateRoomInput{QuizID: "quiz-1"})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.MaxAttempts != 1 {
		t.Errorf("MaxAttempts = %d, want 1", room.MaxAttempts)
	}
	if room.Visibility != models.VisibilityPublic {
		t.Errorf("Visibility = %q, want public", room.Visibility)
	}
	if !room.Active {
		t.Error("new room should be active")
	}
	if room.LecturerID != lecturer.UserID {
		t.Errorf("LecturerID = %q, want %q", room.LecturerID, lecturer.UserID)
	}
	if len(room.Code) != codeLength {
		t.Fatalf("code %q has length %d, want %d", room.Code, len(room.Code), codeLength)
	}
	for _, ch := range room.Code {
		if !strings.ContainsRune(codeAlphabet, ch) {
			t.Errorf("code %q contains %q outside the alphabet", room.Code, ch)
		}
	}
}

func TestCreateRoomValidation(t *testing.T) {
	svc, _, _ := newRoomFixture()
	opens := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	closes := opens.Add(-time.Hour)

	tests := []struct {
		name string
		in   CreateRoomInput
		want error
	}{
		{"negative time limit", CreateRoomInput{QuizID: "quiz-1", TimeLimitMinutes: -5}, models.ErrValidation},
		{"negative max attempts", CreateRoomInput{QuizID: "quiz-1", MaxAttempts: -1}, models.ErrValidation},
		{"bad visibility", CreateRoomInput{QuizID: "quiz-1", Visibility: "secret"}, models.ErrValidation},
		{"inverted window", CreateRoomInput{QuizID: "quiz-1", OpensAt: &opens, ClosesAt: &closes}, models.ErrValidation},
		{"unknown quiz", CreateRoomInput{QuizID: "quiz-404"}, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRoom(context.Background(), lecturer, tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("CreateRoom error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateRoomRetriesCodeCollisions(t *testing.T) {
	svc, rooms, _ := newRoomFixture()
	rooms.failCodes = maxCodeRetries - 1

	room, err := svc.CreateRoom(context.Background(), lecturer, CreateRoomInput{QuizID: "quiz-1"})
	if err != nil {
		t.Fatalf("CreateRoom after collisions: %v", err)
	}
	if room.Code == "" {
		t.Error("room has no code after retries")
	}
}

func TestCreateRoomCodeExhaustion(t *testing.T) {
	svc, rooms, _ := newRoomFixture()
	rooms.alwaysFail = true

	_, err := svc.CreateRoom(context.Background(), lecturer, CreateRoomInput{QuizID: "quiz-1"})
	if !errors.Is(err, models.ErrConflict) {
		t.Fatalf("CreateRoom error = %v, want %v", err, models.ErrConflict)
	}
}

func TestJoinByCode(t *testing.T) {
	svc, rooms, _ := newRoomFixture()
	room, err := svc.CreateRoom(context.Background(), lecturer, CreateRoomInput{
		QuizID:     "quiz-1",
		Visibility: models.VisibilityPrivate,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	// Case and surrounding whitespace must not matter.
	joined, err := svc.JoinByCode(context.Background(), student, "  "+strings.ToLower(room.Code)+" ")
	if err != nil {
		t.Fatalf("JoinByCode: %v", err)
	}
	if joined.ID != room.ID {
		t.Errorf("joined room %q, want %q", joined.ID, room.ID)
	}
	stored, err := rooms.FindByID(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !stored.HasParticipant(student.UserID) {
		t.Error("student not recorded as participant of private room")
	}

	// Joining again is a no-op, not an error.
	if _, err := svc.JoinByCode(context.Background(), student, room.Code); err != nil {
		t.Fatalf("second JoinByCode: %v", err)
	}
	stored, err = rooms.FindByID(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if n := len(stored.Participants); n != 1 {
		t.Errorf("participants = %d after rejoin, want 1", n)
	}
}

func TestJoinByCodeHidesRoster(t *testing.T) {
	svc, _, _ := newRoomFixture()
	room, err := svc.CreateRoom(context.Background(), lecturer, CreateRoomInput{
		QuizID:     "quiz-1",
		Visibility: models.VisibilityPrivate,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	other := models.Caller{UserID: "stud-2", Roles: []string{models.RoleStudent}}
	if _, err := svc.JoinByCode(context.Background(), other, room.Code); err != nil {
		t.Fatalf("first JoinByCode: %v", err)
	}

	joined, err := svc.JoinByCode(context.Background(), student, room.Code)
	if err != nil {
		t.Fatalf("JoinByCode: %v", err)
	}
	if len(joined.Participants) != 0 {
		t.Errorf("student payload carries %d participant ids, want none", len(joined.Participants))
	}

	managed, err := svc.JoinByCode(context.Background(), lecturer, room.Code)
	if err != nil {
		t.Fatalf("lecturer JoinByCode: %v", err)
	}
	if !managed.HasParticipant(student.UserID) || !managed.HasParticipant(other.UserID) {
		t.Errorf("owner payload is missing joined students, got %v", managed.Participants)
	}
}

func TestJoinByCodeWindow(t *testing.T) {
	svc, rooms, _ := newRoomFixture()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		room models.QuizRoom
		want error
	}{
		{"not yet open", models.QuizRoom{Code: "AAAAAA", Active: true, OpensAt: &future}, models.ErrTooEarly},
		{"already closed", models.QuizRoom{Code: "BBBBBB", Active: true, ClosesAt: &past}, models.ErrTooLate},
		{"unknown code", models.QuizRoom{}, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := tt.room.Code
			if code != "" {
				r := tt.room
				r.QuizID = "quiz-1"
				r.Visibility = models.VisibilityPublic
				if err := rooms.Insert(context.Background(), &r); err != nil {
					t.Fatalf("seed room: %v", err)
				}
			} else {
				code = "ZZZZZZ"
			}
			_, err := svc.JoinByCode(context.Background(), student, code)
			if !errors.Is(err, tt.want) {
				t.Errorf("JoinByCode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestToggleActive(t *testing.T) {
	svc, _, _ := newRoomFixture()
	room, err := svc.CreateRoom(context.Background(), lecturer, CreateRoomInput{QuizID: "quiz-1"})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	if _, err := svc.ToggleActive(context.Background(), student, room.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger toggle error = %v, want %v", err, models.ErrForbidden)
	}

	active, err := svc.ToggleActive(context.Background(), lecturer, room.ID)
	if err != nil {
		t.Fatalf("owner toggle: %v", err)
	}
	if active {
		t.Error("toggle of an active room should deactivate it")
	}

	active, err = svc.ToggleActive(context.Background(), admin, room.ID)
	if err != nil {
		t.Fatalf("admin toggle: %v", err)
	}
	if !active {
		t.Error("admin toggle should reactivate the room")
	}
}

func TestDeleteRoom(t *testing.T) {
	svc, _, attempts := newRoomFixture()
	room, err := svc.CreateRoom(context.Background(), lecturer, CreateRoomInput{QuizID: "quiz-1"})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	if err := svc.DeleteRoom(context.Background(), student, room.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger delete error = %v, want %v", err, models.ErrForbidden)
	}

	if err := attempts.Insert(context.Background(), &models.Attempt{
		RoomID: room.ID, UserID: student.UserID, Status: models.AttemptInProgress,
	}); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	if err := svc.DeleteRoom(context.Background(), lecturer, room.ID); !errors.Is(err, models.ErrConflict) {
		t.Errorf("delete with attempts error = %v, want %v", err, models.ErrConflict)
	}

	empty, err := svc.CreateRoom(context.Background(), lecturer, CreateRoomInput{QuizID: "quiz-1"})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if err := svc.DeleteRoom(context.Background(), lecturer, empty.ID); err != nil {
		t.Fatalf("delete empty room: %v", err)
	}
}
