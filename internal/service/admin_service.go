package service

import (
	"context"
	"fmt"

	"aurora/internal/models"
	"aurora/internal/repository"
)

// AdminService covers user administration and system stats. Every method
// assumes the caller already passed the admin role middleware.
type AdminService struct {
	users    *repository.UserRepository
	notes    *repository.NoteRepository
	quizzes  *repository.QuizRepository
	rooms    *repository.RoomRepository
	attempts *repository.AttemptRepository
}

func NewAdminService(users *repository.UserRepository, notes *repository.NoteRepository, quizzes *repository.QuizRepository, rooms *repository.RoomRepository, attempts *repository.AttemptRepository) *AdminService {
	return &AdminService{users: users, notes: notes, quizzes: quizzes, rooms: rooms, attempts: attempts}
}

type SystemStats struct {
	Users   int64 `json:"users"`
	Notes   int64 `json:"notes"`
	Quizzes int64 `json:"quizzes"`
	Rooms   int64 `json:"rooms"`
}

func (s *AdminService) Stats(ctx context.Context) (*SystemStats, error) {
	stats := &SystemStats{}
	var err error
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Notes, err = s.notes.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Quizzes, err = s.quizzes.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Rooms, err = s.rooms.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	return s.users.List(ctx, page, limit)
}

// ListRooms pages through every room in the system, including private and
// locked ones.
func (s *AdminService) ListRooms(ctx context.Context, page, limit int) ([]models.QuizRoom, int64, error) {
	return s.rooms.List(ctx, page, limit)
}

func (s *AdminService) ListAttempts(ctx context.Context, page, limit int) ([]models.Attempt, int64, error) {
	return s.attempts.List(ctx, page, limit)
}

// UpdateUserRole reassigns a user's role. The admin role can never be
// granted this way.
func (s *AdminService) UpdateUserRole(ctx context.Context, userID, role string) (*models.User, error) {
	if role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot assign admin role", models.ErrValidation)
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, role)
	}
	if err := s.users.UpdateRoles(ctx, userID, []string{role}); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

// DeleteUser removes an account. Admin accounts are protected.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	for _, role := range user.Roles {
		if role == models.RoleAdmin {
			return fmt.Errorf("%w: admin account cannot be deleted", models.ErrForbidden)
		}
	}
	return s.users.Delete(ctx, userID)
}
