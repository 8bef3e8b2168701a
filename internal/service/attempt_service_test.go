package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"aurora/internal/models"
)

type attemptFixture struct {
	svc      *AttemptService
	rooms    *fakeRoomStore
	attempts *fakeAttemptStore
	room     *models.QuizRoom
	now      time.Time
}

// newAttemptFixture seeds a three-question quiz (keys A, true, Paris) inside
// an active public room and pins the service clock.
func newAttemptFixture(t *testing.T, mutate func(*models.QuizRoom)) *attemptFixture {
	t.Helper()

	catalog := newFakeCatalog()
	catalog.quizzes["quiz-1"] = &models.Quiz{
		ID:          "quiz-1",
		Title:       "Geography",
		QuestionIDs: []string{"q1", "q2", "q3"},
	}
	catalog.questions["quiz-1"] = []models.Question{
		{ID: "q1", Type: models.QuestionMCQ, Prompt: "Pick A", Options: []string{"A", "B"}, Answer: "A"},
		{ID: "q2", Type: models.QuestionTrueFalse, Prompt: "Sky is blue", Answer: "true"},
		{ID: "q3", Type: models.QuestionShort, Prompt: "Capital of France", Answer: "Paris"},
	}

	rooms := newFakeRoomStore()
	room := &models.QuizRoom{
		QuizID:      "quiz-1",
		LecturerID:  lecturer.UserID,
		Code:        "ROOM01",
		MaxAttempts: 1,
		Active:      true,
		Visibility:  models.VisibilityPublic,
	}
	if mutate != nil {
		mutate(room)
	}
	if err := rooms.Insert(context.Background(), room); err != nil {
		t.Fatalf("seed room: %v", err)
	}

	attempts := newFakeAttemptStore()
	users := &fakeUserDirectory{users: map[string]*models.User{
		student.UserID: {ID: student.UserID, Name: "Student One"},
	}}
	svc := NewAttemptService(attempts, rooms, catalog, users)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &attemptFixture{svc: svc, rooms: rooms, attempts: attempts, room: room, now: now}
}

func TestStartStripsAnswerKeys(t *testing.T) {
	fx := newAttemptFixture(t, nil)

	result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if result.Attempt.AttemptNumber != 1 {
		t.Errorf("AttemptNumber = %d, want 1", result.Attempt.AttemptNumber)
	}
	if result.Attempt.Status != models.AttemptInProgress {
		t.Errorf("Status = %q, want %q", result.Attempt.Status, models.AttemptInProgress)
	}
	if len(result.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(result.Questions))
	}
	for _, q := range result.Questions {
		if q.Answer != "" || q.Explanation != "" {
			t.Errorf("question %s leaked its key", q.ID)
		}
	}
	if result.EndsAt != nil {
		t.Errorf("EndsAt = %v for untimed room, want nil", result.EndsAt)
	}
}

func TestStartResumesInProgressAttempt(t *testing.T) {
	fx := newAttemptFixture(t, nil)

	first, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}
	second, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if first.Attempt.ID != second.Attempt.ID {
		t.Errorf("restart created attempt %q, want resume of %q", second.Attempt.ID, first.Attempt.ID)
	}
	if !first.Attempt.StartedAt.Equal(second.Attempt.StartedAt) {
		t.Error("resume must keep the original start time")
	}
}

func TestStartRejections(t *testing.T) {
	past := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	future := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*models.QuizRoom)
		caller models.Caller
		want   error
	}{
		{"locked room", func(r *models.QuizRoom) { r.Active = false }, student, models.ErrLocked},
		{"before opening", func(r *models.QuizRoom) { r.OpensAt = &future }, student, models.ErrTooEarly},
		{"after closing", func(r *models.QuizRoom) { r.ClosesAt = &past }, student, models.ErrTooLate},
		{"private without joining", func(r *models.QuizRoom) { r.Visibility = models.VisibilityPrivate }, student, models.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newAttemptFixture(t, tt.mutate)
			_, err := fx.svc.Start(context.Background(), tt.caller, fx.room.ID)
			if !errors.Is(err, tt.want) {
				t.Errorf("Start error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStartAttemptLimit(t *testing.T) {
	fx := newAttemptFixture(t, func(r *models.QuizRoom) { r.MaxAttempts = 2 })

	for i := 0; i < 2; i++ {
		result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
		if err != nil {
			t.Fatalf("Start %d: %v", i+1, err)
		}
		if _, err := fx.svc.Submit(context.Background(), student, result.Attempt.ID, nil); err != nil {
			t.Fatalf("Submit %d: %v", i+1, err)
		}
	}

	_, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if !errors.Is(err, models.ErrAttemptLimitReached) {
		t.Fatalf("Start error = %v, want %v", err, models.ErrAttemptLimitReached)
	}
}

func TestStartNumbersSurviveDeletion(t *testing.T) {
	fx := newAttemptFixture(t, func(r *models.QuizRoom) { r.MaxAttempts = 3 })

	var ids []string
	for i := 0; i < 2; i++ {
		result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
		if err != nil {
			t.Fatalf("Start %d: %v", i+1, err)
		}
		if _, err := fx.svc.Submit(context.Background(), student, result.Attempt.ID, nil); err != nil {
			t.Fatalf("Submit %d: %v", i+1, err)
		}
		ids = append(ids, result.Attempt.ID)
	}

	if err := fx.svc.DeleteAttempt(context.Background(), lecturer, ids[0]); err != nil {
		t.Fatalf("DeleteAttempt: %v", err)
	}

	third, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("third Start: %v", err)
	}
	if third.Attempt.AttemptNumber != 3 {
		t.Errorf("AttemptNumber = %d, want 3", third.Attempt.AttemptNumber)
	}
	surviving, err := fx.attempts.FindByID(context.Background(), ids[1])
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if surviving.AttemptNumber == third.Attempt.AttemptNumber {
		t.Errorf("new attempt reused number %d held by %s", surviving.AttemptNumber, surviving.ID)
	}
}

func TestSubmitGradesInQuizOrder(t *testing.T) {
	fx := newAttemptFixture(t, nil)
	result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// q2 is left unanswered and an unknown question id is ignored.
	submit, err := fx.svc.Submit(context.Background(), student, result.Attempt.ID, []AnswerInput{
		{QuestionID: "q3", Selected: "Paris"},
		{QuestionID: "q1", Selected: "A"},
		{QuestionID: "q-bogus", Selected: "whatever"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submit.Score != 2 || submit.Total != 3 {
		t.Errorf("score = %d/%d, want 2/3", submit.Score, submit.Total)
	}
	if len(submit.Responses) != 3 {
		t.Fatalf("got %d responses, want 3", len(submit.Responses))
	}
	wantOrder := []string{"q1", "q2", "q3"}
	for i, r := range submit.Responses {
		if r.QuestionID != wantOrder[i] {
			t.Errorf("response %d is %q, want %q", i, r.QuestionID, wantOrder[i])
		}
	}
	if submit.Responses[1].Selected != "" || submit.Responses[1].Correct {
		t.Error("unanswered question must be recorded empty and incorrect")
	}
}

func TestSubmitCaseSensitive(t *testing.T) {
	fx := newAttemptFixture(t, nil)
	result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	submit, err := fx.svc.Submit(context.Background(), student, result.Attempt.ID, []AnswerInput{
		{QuestionID: "q3", Selected: "paris"},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submit.Score != 0 {
		t.Errorf("score = %d, want 0 for wrong-case short answer", submit.Score)
	}
}

func TestSubmitExactlyOnce(t *testing.T) {
	fx := newAttemptFixture(t, nil)
	result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := fx.svc.Submit(context.Background(), student, result.Attempt.ID, nil); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err = fx.svc.Submit(context.Background(), student, result.Attempt.ID, []AnswerInput{
		{QuestionID: "q1", Selected: "A"},
	})
	if !errors.Is(err, models.ErrAlreadySubmitted) {
		t.Fatalf("second Submit error = %v, want %v", err, models.ErrAlreadySubmitted)
	}

	final, err := fx.attempts.FindByID(context.Background(), result.Attempt.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if final.Score != 0 {
		t.Errorf("rejected resubmission changed score to %d", final.Score)
	}
}

func TestSubmitAfterDeadline(t *testing.T) {
	fx := newAttemptFixture(t, func(r *models.QuizRoom) { r.TimeLimitMinutes = 30 })
	result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if result.EndsAt == nil {
		t.Fatal("timed room returned nil EndsAt")
	}

	fx.svc.now = func() time.Time { return fx.now.Add(31 * time.Minute) }
	_, err = fx.svc.Submit(context.Background(), student, result.Attempt.ID, nil)
	if !errors.Is(err, models.ErrTimeExpired) {
		t.Fatalf("late Submit error = %v, want %v", err, models.ErrTimeExpired)
	}
}

func TestSubmitLockedRoom(t *testing.T) {
	fx := newAttemptFixture(t, nil)
	result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := fx.rooms.SetActive(context.Background(), fx.room.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	_, err = fx.svc.Submit(context.Background(), student, result.Attempt.ID, nil)
	if !errors.Is(err, models.ErrLocked) {
		t.Fatalf("Submit error = %v, want %v", err, models.ErrLocked)
	}
}

func TestSubmitOwnershipAndAccess(t *testing.T) {
	fx := newAttemptFixture(t, nil)
	result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	other := models.Caller{UserID: "stud-2", Roles: []string{models.RoleStudent}}
	if _, err := fx.svc.Submit(context.Background(), other, result.Attempt.ID, nil); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("foreign Submit error = %v, want %v", err, models.ErrForbidden)
	}
	if _, err := fx.svc.GetAttempt(context.Background(), other, result.Attempt.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("foreign GetAttempt error = %v, want %v", err, models.ErrForbidden)
	}
	if _, err := fx.svc.GetAttempt(context.Background(), lecturer, result.Attempt.ID); err != nil {
		t.Errorf("lecturer GetAttempt: %v", err)
	}
	if err := fx.svc.DeleteAttempt(context.Background(), student, result.Attempt.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("student DeleteAttempt error = %v, want %v", err, models.ErrForbidden)
	}
}

func TestDetailRequiresFinalizedAttempt(t *testing.T) {
	fx := newAttemptFixture(t, nil)
	result, err := fx.svc.Start(context.Background(), student, fx.room.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := fx.svc.Detail(context.Background(), student, result.Attempt.ID); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("Detail on in-progress attempt error = %v, want %v", err, models.ErrValidation)
	}

	if _, err := fx.svc.Submit(context.Background(), student, result.Attempt.ID, []AnswerInput{
		{QuestionID: "q1", Selected: "A"},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	detail, err := fx.svc.Detail(context.Background(), student, result.Attempt.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if detail.QuizTitle != "Geography" {
		t.Errorf("QuizTitle = %q, want Geography", detail.QuizTitle)
	}
	if detail.StudentName != "Student One" {
		t.Errorf("StudentName = %q, want Student One", detail.StudentName)
	}
	if _, ok := detail.Questions["q1"]; !ok {
		t.Error("detail is missing question q1")
	}
}
