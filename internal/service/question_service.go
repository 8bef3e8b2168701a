package service

import (
	"context"
	"fmt"

	"aurora/internal/models"
	"aurora/internal/repository"
)

type QuestionService struct {
	questions *repository.QuestionRepository
}

func NewQuestionService(questions *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questions: questions}
}

type QuestionInput struct {
	Type        string   `json:"type" binding:"required"`
	Prompt      string   `json:"prompt" binding:"required"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer" binding:"required"`
	Explanation string   `json:"explanation"`
	Topic       string   `json:"topic" binding:"required"`
}

func (s *QuestionService) CreateQuestion(ctx context.Context, caller models.Caller, in QuestionInput) (*models.Question, error) {
	q := &models.Question{
		Type:        in.Type,
		Prompt:      in.Prompt,
		Options:     in.Options,
		Answer:      in.Answer,
		Explanation: in.Explanation,
		Topic:       in.Topic,
		OwnerID:     caller.UserID,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.questions.Insert(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, caller models.Caller, id string) (*models.Question, error) {
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.OwnerID != caller.UserID && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: not your question", models.ErrForbidden)
	}
	return q, nil
}

func (s *QuestionService) ListMine(ctx context.Context, caller models.Caller, page, limit int) ([]models.Question, int64, error) {
	return s.questions.ListByOwner(ctx, caller.UserID, page, limit)
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, caller models.Caller, id string, in QuestionInput) (*models.Question, error) {
	q := &models.Question{
		Type:        in.Type,
		Prompt:      in.Prompt,
		Options:     in.Options,
		Answer:      in.Answer,
		Explanation: in.Explanation,
		Topic:       in.Topic,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.questions.Update(ctx, id, caller.UserID, q); err != nil {
		return nil, err
	}
	return s.questions.FindByID(ctx, id)
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, caller models.Caller, id string) error {
	return s.questions.Delete(ctx, id, caller.UserID)
}
