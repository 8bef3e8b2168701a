package service

import (
	"context"
	"fmt"
	"strings"

	"aurora/internal/models"
	"aurora/internal/repository"
)

type NoteService struct {
	notes *repository.NoteRepository
}

func NewNoteService(notes *repository.NoteRepository) *NoteService {
	return &NoteService{notes: notes}
}

type NoteInput struct {
	Title        string `json:"title" binding:"required"`
	Topic        string `json:"topic"`
	Content      string `json:"content" binding:"required"`
	SourcePDFURL string `json:"source_pdf_url"`
}

func (s *NoteService) CreateNote(ctx context.Context, caller models.Caller, in NoteInput) (*models.Note, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", models.ErrValidation)
	}
	note := &models.Note{
		OwnerID:      caller.UserID,
		Title:        in.Title,
		Topic:        in.Topic,
		Content:      in.Content,
		SourcePDFURL: in.SourcePDFURL,
	}
	if err := s.notes.Insert(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) GetNote(ctx context.Context, caller models.Caller, id string) (*models.Note, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != caller.UserID && !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: not your note", models.ErrForbidden)
	}
	return note, nil
}

func (s *NoteService) ListMine(ctx context.Context, caller models.Caller, page, limit int) ([]models.Note, int64, error) {
	return s.notes.ListByOwner(ctx, caller.UserID, page, limit)
}

func (s *NoteService) UpdateNote(ctx context.Context, caller models.Caller, id string, in NoteInput) (*models.Note, error) {
	note, err := s.GetNote(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	note.Title = in.Title
	note.Topic = in.Topic
	note.Content = in.Content
	note.SourcePDFURL = in.SourcePDFURL
	if err := s.notes.Update(ctx, id, note.OwnerID, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, caller models.Caller, id string) error {
	note, err := s.GetNote(ctx, caller, id)
	if err != nil {
		return err
	}
	return s.notes.Delete(ctx, id, note.OwnerID)
}
