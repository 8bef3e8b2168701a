package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aurora/internal/models"
)

type AttemptService struct {
	attempts AttemptStore
	rooms    RoomStore
	quizzes  QuizCatalog
	users    UserDirectory
	now      func() time.Time
}

func NewAttemptService(attempts AttemptStore, rooms RoomStore, quizzes QuizCatalog, users UserDirectory) *AttemptService {
	return &AttemptService{attempts: attempts, rooms: rooms, quizzes: quizzes, users: users, now: time.Now}
}

// AnswerInput is one submitted answer, matched to a question by id.
type AnswerInput struct {
	QuestionID string `json:"question_id" binding:"required"`
	Selected   string `json:"selected"`
}

// StartResult is the student-facing start/resume payload. Questions never
// carry answer keys here. EndsAt is nil for untimed rooms.
type StartResult struct {
	Attempt   *models.Attempt   `json:"attempt"`
	Quiz      *models.Quiz      `json:"quiz"`
	Questions []models.Question `json:"questions"`
	EndsAt    *time.Time        `json:"ends_at,omitempty"`
}

type SubmitResult struct {
	AttemptID string            `json:"attempt_id"`
	Score     int               `json:"score"`
	Total     int               `json:"total"`
	Responses []models.Response `json:"responses"`
}

// Start opens a new attempt or resumes the caller's in-progress one.
// Restarting after a client refresh is idempotent: the existing attempt is
// returned unchanged with its original deadline.
func (s *AttemptService) Start(ctx context.Context, caller models.Caller, roomID string) (*StartResult, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Active {
		return nil, fmt.Errorf("%w: room is not accepting attempts", models.ErrLocked)
	}
	if err := room.CheckWindow(s.now()); err != nil {
		return nil, err
	}
	if room.Visibility == models.VisibilityPrivate &&
		!room.HasParticipant(caller.UserID) && room.LecturerID != caller.UserID {
		return nil, fmt.Errorf("%w: join the room before starting", models.ErrForbidden)
	}

	if attempt, err := s.attempts.FindInProgress(ctx, roomID, caller.UserID); err == nil {
		return s.startResult(ctx, room, attempt)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	prior, err := s.attempts.CountFinalized(ctx, roomID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if prior >= room.MaxAttempts {
		return nil, fmt.Errorf("%w: %d of %d used", models.ErrAttemptLimitReached, prior, room.MaxAttempts)
	}

	// Numbers come from the high-water mark, not the finalized count, so a
	// deleted attempt can never cause its number to be handed out again.
	highest, err := s.attempts.MaxAttemptNumber(ctx, roomID, caller.UserID)
	if err != nil {
		return nil, err
	}

	attempt := &models.Attempt{
		RoomID:        roomID,
		UserID:        caller.UserID,
		AttemptNumber: highest + 1,
		Responses:     []models.Response{},
		Score:         0,
		Status:        models.AttemptInProgress,
		StartedAt:     s.now(),
	}
	if err := s.attempts.Insert(ctx, attempt); err != nil {
		// Lost a concurrent start race; the partial unique index guarantees
		// the winner's attempt exists, so resume it.
		if errors.Is(err, models.ErrConflict) {
			if existing, ferr := s.attempts.FindInProgress(ctx, roomID, caller.UserID); ferr == nil {
				return s.startResult(ctx, room, existing)
			}
		}
		return nil, err
	}
	return s.startResult(ctx, room, attempt)
}

func (s *AttemptService) startResult(ctx context.Context, room *models.QuizRoom, attempt *models.Attempt) (*StartResult, error) {
	quiz, questions, err := s.quizzes.GetQuizWithoutAnswerKey(ctx, room.QuizID)
	if err != nil {
		return nil, err
	}
	return &StartResult{
		Attempt:   attempt,
		Quiz:      quiz,
		Questions: questions,
		EndsAt:    room.Deadline(attempt.StartedAt),
	}, nil
}

// Submit grades the attempt against the quiz's answer key and finalizes it
// exactly once. The deadline is checked against the server clock; whatever
// timer the client showed is advisory only.
func (s *AttemptService) Submit(ctx context.Context, caller models.Caller, attemptID string, answers []AnswerInput) (*SubmitResult, error) {
	attempt, err := s.attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != caller.UserID {
		return nil, fmt.Errorf("%w: not your attempt", models.ErrForbidden)
	}
	if attempt.Finalized() {
		return nil, models.ErrAlreadySubmitted
	}

	room, err := s.rooms.FindByID(ctx, attempt.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.Active {
		return nil, fmt.Errorf("%w: room was locked", models.ErrLocked)
	}
	if deadline := room.Deadline(attempt.StartedAt); deadline != nil && s.now().After(*deadline) {
		return nil, models.ErrTimeExpired
	}

	_, questions, err := s.quizzes.GetQuizWithAnswerKey(ctx, room.QuizID)
	if err != nil {
		return nil, err
	}
	responses, score := gradeAnswers(questions, answers)

	won, err := s.attempts.Finalize(ctx, attempt.ID, responses, score, s.now())
	if err != nil {
		return nil, err
	}
	if !won {
		// A concurrent submission finalized first; this one must not grade.
		return nil, models.ErrAlreadySubmitted
	}
	return &SubmitResult{
		AttemptID: attempt.ID,
		Score:     score,
		Total:     len(questions),
		Responses: responses,
	}, nil
}

// gradeAnswers walks the quiz's question list, not the submission, so an
// unanswered question is graded as incorrect with an empty selection instead
// of being silently dropped.
func gradeAnswers(questions []models.Question, answers []AnswerInput) ([]models.Response, int) {
	selectedByQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		selectedByQuestion[a.QuestionID] = a.Selected
	}
	responses := make([]models.Response, 0, len(questions))
	score := 0
	for i := range questions {
		q := &questions[i]
		selected := selectedByQuestion[q.ID]
		correct := q.Grade(selected)
		if correct {
			score++
		}
		responses = append(responses, models.Response{
			QuestionID: q.ID,
			Selected:   selected,
			Correct:    correct,
		})
	}
	return responses, score
}

// GetAttempt returns an attempt to its owner, or read-only to staff.
func (s *AttemptService) GetAttempt(ctx context.Context, caller models.Caller, id string) (*models.Attempt, error) {
	attempt, err := s.attempts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != caller.UserID && !caller.IsAdmin() && !caller.HasRole(models.RoleLecturer) {
		return nil, fmt.Errorf("%w: not your attempt", models.ErrForbidden)
	}
	return attempt, nil
}

// AttemptDetail is the fully resolved view of a finalized attempt, used by
// the PDF report.
type AttemptDetail struct {
	Attempt     *models.Attempt
	QuizTitle   string
	StudentName string
	Questions   map[string]models.Question
}

// Detail resolves the quiz title, question prompts and student name for a
// finalized attempt. Deleted questions are simply absent from the map.
func (s *AttemptService) Detail(ctx context.Context, caller models.Caller, id string) (*AttemptDetail, error) {
	attempt, err := s.GetAttempt(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !attempt.Finalized() {
		return nil, fmt.Errorf("%w: attempt is still in progress", models.ErrValidation)
	}
	detail := &AttemptDetail{
		Attempt:     attempt,
		QuizTitle:   "Untitled Quiz",
		StudentName: "Unknown Student",
		Questions:   map[string]models.Question{},
	}
	if room, err := s.rooms.FindByID(ctx, attempt.RoomID); err == nil {
		if quiz, questions, err := s.quizzes.GetQuizWithoutAnswerKey(ctx, room.QuizID); err == nil {
			detail.QuizTitle = quiz.Title
			for _, q := range questions {
				detail.Questions[q.ID] = q
			}
		}
	}
	if s.users != nil {
		if user, err := s.users.FindByID(ctx, attempt.UserID); err == nil {
			detail.StudentName = user.Name
		}
	}
	return detail, nil
}

func (s *AttemptService) ListMine(ctx context.Context, caller models.Caller) ([]models.Attempt, error) {
	return s.attempts.ListByUser(ctx, caller.UserID)
}

func (s *AttemptService) DeleteAttempt(ctx context.Context, caller models.Caller, id string) error {
	if !caller.IsAdmin() && !caller.HasRole(models.RoleLecturer) {
		return fmt.Errorf("%w: staff only", models.ErrForbidden)
	}
	return s.attempts.Delete(ctx, id)
}
