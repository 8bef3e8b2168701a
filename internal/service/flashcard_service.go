package service

import (
	"context"
	"fmt"
	"strings"

	"aurora/internal/models"
	"aurora/internal/repository"
)

type FlashcardService struct {
	cards *repository.FlashcardRepository
}

func NewFlashcardService(cards *repository.FlashcardRepository) *FlashcardService {
	return &FlashcardService{cards: cards}
}

type FlashcardInput struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Topic    string `json:"topic"`
}

func (s *FlashcardService) CreateFlashcard(ctx context.Context, caller models.Caller, in FlashcardInput) (*models.Flashcard, error) {
	if strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Answer) == "" {
		return nil, fmt.Errorf("%w: question and answer are required", models.ErrValidation)
	}
	card := &models.Flashcard{
		OwnerID:  caller.UserID,
		Question: in.Question,
		Answer:   in.Answer,
		Topic:    in.Topic,
	}
	if err := s.cards.Insert(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *FlashcardService) GetFlashcard(ctx context.Context, caller models.Caller, id string) (*models.Flashcard, error) {
	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.OwnerID != caller.UserID && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: not your flashcard", models.ErrForbidden)
	}
	return card, nil
}

func (s *FlashcardService) ListMine(ctx context.Context, caller models.Caller, page, limit int) ([]models.Flashcard, int64, error) {
	return s.cards.ListByOwner(ctx, caller.UserID, page, limit)
}

func (s *FlashcardService) UpdateFlashcard(ctx context.Context, caller models.Caller, id string, in FlashcardInput) (*models.Flashcard, error) {
	card, err := s.GetFlashcard(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	card.Question = in.Question
	card.Answer = in.Answer
	card.Topic = in.Topic
	if err := s.cards.Update(ctx, id, card.OwnerID, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *FlashcardService) DeleteFlashcard(ctx context.Context, caller models.Caller, id string) error {
	card, err := s.GetFlashcard(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.cards.Delete(ctx, id, card.OwnerID)
}
