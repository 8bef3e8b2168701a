package service

import (
	"context"
	"fmt"

	"aurora/internal/models"
)

// RoomCounter is the one room fact the catalog needs: whether any room
// references a quiz. Referenced quizzes are immutable.
type RoomCounter interface {
	CountByQuiz(ctx context.Context, quizID string) (int64, error)
}

type QuizService struct {
	quizzes   QuizStore
	questions QuestionFinder
	rooms     RoomCounter
}

func NewQuizService(quizzes QuizStore, questions QuestionFinder, rooms RoomCounter) *QuizService {
	return &QuizService{quizzes: quizzes, questions: questions, rooms: rooms}
}

type QuizInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Topic       string   `json:"topic" binding:"required"`
	Difficulty  string   `json:"difficulty"`
	QuestionIDs []string `json:"question_ids" binding:"required"`
}

// resolveQuestionIDs checks that every id names an existing question. A quiz
// saved with a dangling id would silently shrink its grading total.
func (s *QuizService) resolveQuestionIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: a quiz needs at least one question", models.ErrValidation)
	}
	questions, err := s.questions.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(questions) != len(ids) {
		return fmt.Errorf("%w: unknown question id", models.ErrValidation)
	}
	return nil
}

func (s *QuizService) CreateQuiz(ctx context.Context, caller models.Caller, in QuizInput) (*models.Quiz, error) {
	if err := s.resolveQuestionIDs(ctx, in.QuestionIDs); err != nil {
		return nil, err
	}
	quiz := &models.Quiz{
		Title:       in.Title,
		Description: in.Description,
		Topic:       in.Topic,
		Difficulty:  in.Difficulty,
		OwnerID:     caller.UserID,
		QuestionIDs: in.QuestionIDs,
	}
	if err := s.quizzes.Insert(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListQuizzes(ctx context.Context, page, limit int) ([]models.Quiz, int64, error) {
	return s.quizzes.List(ctx, page, limit)
}

func (s *QuizService) ListMine(ctx context.Context, caller models.Caller, page, limit int) ([]models.Quiz, int64, error) {
	return s.quizzes.ListByOwner(ctx, caller.UserID, page, limit)
}

// GetQuiz returns the quiz with questions; answer keys are included only for
// the owner and admins.
func (s *QuizService) GetQuiz(ctx context.Context, caller models.Caller, id string) (*models.Quiz, []models.Question, error) {
	quiz, err := s.quizzes.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if caller.IsAdmin() || quiz.OwnerID == caller.UserID {
		questions, err := s.questions.FindByIDs(ctx, quiz.QuestionIDs)
		return quiz, questions, err
	}
	_, questions, err := s.GetQuizWithoutAnswerKey(ctx, id)
	return quiz, questions, err
}

// GetQuizWithAnswerKey loads the quiz and its questions, keys included, in
// grading order. Only the attempt engine and staff paths call this.
func (s *QuizService) GetQuizWithAnswerKey(ctx context.Context, quizID string) (*models.Quiz, []models.Question, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	questions, err := s.questions.FindByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		return nil, nil, err
	}
	return quiz, questions, nil
}

// GetQuizWithoutAnswerKey is the student-safe variant.
func (s *QuizService) GetQuizWithoutAnswerKey(ctx context.Context, quizID string) (*models.Quiz, []models.Question, error) {
	quiz, questions, err := s.GetQuizWithAnswerKey(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	stripped := make([]models.Question, len(questions))
	for i, q := range questions {
		stripped[i] = q.StripKey()
	}
	return quiz, stripped, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, caller models.Caller, id string, in QuizInput) (*models.Quiz, error) {
	if err := s.checkMutable(ctx, id); err != nil {
		return nil, err
	}
	if err := s.resolveQuestionIDs(ctx, in.QuestionIDs); err != nil {
		return nil, err
	}
	quiz := &models.Quiz{
		Title:       in.Title,
		Description: in.Description,
		Topic:       in.Topic,
		Difficulty:  in.Difficulty,
		QuestionIDs: in.QuestionIDs,
	}
	if err := s.quizzes.Update(ctx, id, caller.UserID, quiz); err != nil {
		return nil, err
	}
	return s.quizzes.FindByID(ctx, id)
}

func (s *QuizService) DeleteQuiz(ctx context.Context, caller models.Caller, id string) error {
	if err := s.checkMutable(ctx, id); err != nil {
		return err
	}
	return s.quizzes.Delete(ctx, id, caller.UserID)
}

// checkMutable rejects edits to a quiz referenced by any room, so grading
// outcomes cannot change under in-flight or recorded attempts.
func (s *QuizService) checkMutable(ctx context.Context, quizID string) error {
	n, err := s.rooms.CountByQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: quiz is referenced by a room", models.ErrConflict)
	}
	return nil
}
