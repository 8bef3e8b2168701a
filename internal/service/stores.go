package service

import (
	"context"
	"time"

	"aurora/internal/models"
)

// RoomStore is the persistence surface the room and attempt services need.
// The Mongo repository implements it; tests use an in-memory fake.
type RoomStore interface {
	Insert(ctx context.Context, room *models.QuizRoom) error
	FindByID(ctx context.Context, id string) (*models.QuizRoom, error)
	FindActiveByCode(ctx context.Context, code string) (*models.QuizRoom, error)
	ListOpenPublic(ctx context.Context, now time.Time) ([]models.QuizRoom, error)
	ListByLecturer(ctx context.Context, lecturerID string) ([]models.QuizRoom, error)
	SetActive(ctx context.Context, id string, active bool) error
	AddParticipant(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

// AttemptStore persists attempts. Insert must fail with a conflict when an
// in-progress attempt already exists for the same (room, user); Finalize
// must be a compare-and-set that reports whether this caller won the write.
type AttemptStore interface {
	Insert(ctx context.Context, attempt *models.Attempt) error
	FindByID(ctx context.Context, id string) (*models.Attempt, error)
	FindInProgress(ctx context.Context, roomID, userID string) (*models.Attempt, error)
	CountFinalized(ctx context.Context, roomID, userID string) (int, error)
	MaxAttemptNumber(ctx context.Context, roomID, userID string) (int, error)
	CountByRoom(ctx context.Context, roomID string) (int64, error)
	Finalize(ctx context.Context, id string, responses []models.Response, score int, at time.Time) (bool, error)
	ListFinalizedByRoom(ctx context.Context, roomID string) ([]models.Attempt, error)
	ListByUser(ctx context.Context, userID string) ([]models.Attempt, error)
	Delete(ctx context.Context, id string) error
}

// QuizStore persists quizzes. Update and Delete are scoped to the owner.
type QuizStore interface {
	Insert(ctx context.Context, quiz *models.Quiz) error
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	List(ctx context.Context, page, limit int) ([]models.Quiz, int64, error)
	ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Quiz, int64, error)
	Update(ctx context.Context, id, ownerID string, quiz *models.Quiz) error
	Delete(ctx context.Context, id, ownerID string) error
}

// QuestionFinder resolves question ids in the order given, skipping unknown
// ids. Callers compare lengths to detect dangling references.
type QuestionFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Question, error)
}

// QuizCatalog resolves a quiz and its questions in grading order, with or
// without the answer keys.
type QuizCatalog interface {
	GetQuizWithAnswerKey(ctx context.Context, quizID string) (*models.Quiz, []models.Question, error)
	GetQuizWithoutAnswerKey(ctx context.Context, quizID string) (*models.Quiz, []models.Question, error)
}

// UserDirectory resolves user ids to accounts for display purposes.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// UserStore is the account surface the auth service needs.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	HasRole(ctx context.Context, role string) (bool, error)
	UpdateProfile(ctx context.Context, id, name, email string) error
	UpdatePassword(ctx context.Context, id, hashed string) error
}
