package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aurora/internal/models"
)

// In-memory stands-ins for the Mongo repositories. They reproduce the two
// write guarantees the services lean on: the unique room code and the single
// in-progress attempt per (room, user), with Finalize as a compare-and-set.

type fakeRoomStore struct {
	rooms      map[string]*models.QuizRoom
	nextID     int
	failCodes  int  // force this many duplicate-code inserts
	alwaysFail bool // every insert is a duplicate
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: map[string]*models.QuizRoom{}}
}

func (f *fakeRoomStore) Insert(ctx context.Context, room *models.QuizRoom) error {
	if f.alwaysFail || f.failCodes > 0 {
		f.failCodes--
		return fmt.Errorf("room code taken: %w", models.ErrConflict)
	}
	for _, r := range f.rooms {
		if r.Code == room.Code {
			return fmt.Errorf("room code taken: %w", models.ErrConflict)
		}
	}
	f.nextID++
	room.ID = fmt.Sprintf("room-%d", f.nextID)
	cp := *room
	f.rooms[room.ID] = &cp
	return nil
}

func (f *fakeRoomStore) FindByID(ctx context.Context, id string) (*models.QuizRoom, error) {
	r, ok := f.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoomStore) FindActiveByCode(ctx context.Context, code string) (*models.QuizRoom, error) {
	for _, r := range f.rooms {
		if r.Code == code && r.Active {
			cp := *r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("room code %s: %w", code, models.ErrNotFound)
}

func (f *fakeRoomStore) ListOpenPublic(ctx context.Context, now time.Time) ([]models.QuizRoom, error) {
	var out []models.QuizRoom
	for _, r := range f.rooms {
		if r.Active && r.Visibility == models.VisibilityPublic && r.CheckWindow(now) == nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoomStore) ListByLecturer(ctx context.Context, lecturerID string) ([]models.QuizRoom, error) {
	var out []models.QuizRoom
	for _, r := range f.rooms {
		if r.LecturerID == lecturerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoomStore) SetActive(ctx context.Context, id string, active bool) error {
	r, ok := f.rooms[id]
	if !ok {
		return fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	r.Active = active
	return nil
}

func (f *fakeRoomStore) AddParticipant(ctx context.Context, id, userID string) error {
	r, ok := f.rooms[id]
	if !ok {
		return fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	if !r.HasParticipant(userID) {
		r.Participants = append(r.Participants, userID)
	}
	return nil
}

func (f *fakeRoomStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.rooms[id]; !ok {
		return fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	delete(f.rooms, id)
	return nil
}

type fakeAttemptStore struct {
	attempts map[string]*models.Attempt
	nextID   int
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: map[string]*models.Attempt{}}
}

func (f *fakeAttemptStore) Insert(ctx context.Context, attempt *models.Attempt) error {
	for _, a := range f.attempts {
		if a.RoomID == attempt.RoomID && a.UserID == attempt.UserID && a.Status == models.AttemptInProgress {
			return fmt.Errorf("attempt in progress: %w", models.ErrConflict)
		}
	}
	f.nextID++
	attempt.ID = fmt.Sprintf("attempt-%d", f.nextID)
	cp := *attempt
	f.attempts[attempt.ID] = &cp
	return nil
}

func (f *fakeAttemptStore) FindByID(ctx context.Context, id string) (*models.Attempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, fmt.Errorf("attempt %s: %w", id, models.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptStore) FindInProgress(ctx context.Context, roomID, userID string) (*models.Attempt, error) {
	for _, a := range f.attempts {
		if a.RoomID == roomID && a.UserID == userID && a.Status == models.AttemptInProgress {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no in-progress attempt: %w", models.ErrNotFound)
}

func (f *fakeAttemptStore) CountFinalized(ctx context.Context, roomID, userID string) (int, error) {
	n := 0
	for _, a := range f.attempts {
		if a.RoomID == roomID && a.UserID == userID && a.Status == models.AttemptSubmitted {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttemptStore) MaxAttemptNumber(ctx context.Context, roomID, userID string) (int, error) {
	highest := 0
	for _, a := range f.attempts {
		if a.RoomID == roomID && a.UserID == userID && a.AttemptNumber > highest {
			highest = a.AttemptNumber
		}
	}
	return highest, nil
}

func (f *fakeAttemptStore) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	var n int64
	for _, a := range f.attempts {
		if a.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttemptStore) Finalize(ctx context.Context, id string, responses []models.Response, score int, at time.Time) (bool, error) {
	a, ok := f.attempts[id]
	if !ok || a.Status != models.AttemptInProgress {
		return false, nil
	}
	a.Responses = responses
	a.Score = score
	a.Status = models.AttemptSubmitted
	a.SubmittedAt = &at
	return true, nil
}

func (f *fakeAttemptStore) ListFinalizedByRoom(ctx context.Context, roomID string) ([]models.Attempt, error) {
	var out []models.Attempt
	for _, a := range f.attempts {
		if a.RoomID == roomID && a.Status == models.AttemptSubmitted {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) ListByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	var out []models.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.attempts[id]; !ok {
		return fmt.Errorf("attempt %s: %w", id, models.ErrNotFound)
	}
	delete(f.attempts, id)
	return nil
}

type fakeCatalog struct {
	quizzes   map[string]*models.Quiz
	questions map[string][]models.Question
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{quizzes: map[string]*models.Quiz{}, questions: map[string][]models.Question{}}
}

func (f *fakeCatalog) GetQuizWithAnswerKey(ctx context.Context, quizID string) (*models.Quiz, []models.Question, error) {
	q, ok := f.quizzes[quizID]
	if !ok {
		return nil, nil, fmt.Errorf("quiz %s: %w", quizID, models.ErrNotFound)
	}
	return q, f.questions[quizID], nil
}

func (f *fakeCatalog) GetQuizWithoutAnswerKey(ctx context.Context, quizID string) (*models.Quiz, []models.Question, error) {
	q, questions, err := f.GetQuizWithAnswerKey(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	stripped := make([]models.Question, 0, len(questions))
	for _, question := range questions {
		stripped = append(stripped, question.StripKey())
	}
	return q, stripped, nil
}

type fakeQuizStore struct {
	quizzes map[string]*models.Quiz
	nextID  int
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{quizzes: map[string]*models.Quiz{}}
}

func (f *fakeQuizStore) Insert(ctx context.Context, quiz *models.Quiz) error {
	f.nextID++
	quiz.ID = fmt.Sprintf("quiz-%d", f.nextID)
	cp := *quiz
	f.quizzes[quiz.ID] = &cp
	return nil
}

func (f *fakeQuizStore) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return nil, fmt.Errorf("quiz %s: %w", id, models.ErrNotFound)
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuizStore) List(ctx context.Context, page, limit int) ([]models.Quiz, int64, error) {
	var out []models.Quiz
	for _, q := range f.quizzes {
		out = append(out, *q)
	}
	return out, int64(len(out)), nil
}

func (f *fakeQuizStore) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Quiz, int64, error) {
	var out []models.Quiz
	for _, q := range f.quizzes {
		if q.OwnerID == ownerID {
			out = append(out, *q)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeQuizStore) Update(ctx context.Context, id, ownerID string, quiz *models.Quiz) error {
	q, ok := f.quizzes[id]
	if !ok || q.OwnerID != ownerID {
		return fmt.Errorf("quiz %s: %w", id, models.ErrNotFound)
	}
	q.Title = quiz.Title
	q.Description = quiz.Description
	q.Topic = quiz.Topic
	q.Difficulty = quiz.Difficulty
	q.QuestionIDs = quiz.QuestionIDs
	return nil
}

func (f *fakeQuizStore) Delete(ctx context.Context, id, ownerID string) error {
	q, ok := f.quizzes[id]
	if !ok || q.OwnerID != ownerID {
		return fmt.Errorf("quiz %s: %w", id, models.ErrNotFound)
	}
	delete(f.quizzes, id)
	return nil
}

// fakeQuestionFinder returns only the ids it knows, preserving input order.
type fakeQuestionFinder struct {
	questions map[string]models.Question
}

func (f *fakeQuestionFinder) FindByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	var out []models.Question
	for _, id := range ids {
		if q, ok := f.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeRoomCounter struct {
	counts map[string]int64
}

func (f *fakeRoomCounter) CountByQuiz(ctx context.Context, quizID string) (int64, error) {
	return f.counts[quizID], nil
}

type fakeUserDirectory struct {
	users map[string]*models.User
}

func (f *fakeUserDirectory) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return u, nil
}

type fakeUserStore struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) Insert(ctx context.Context, user *models.User) error {
	email := strings.ToLower(user.Email)
	for _, u := range f.users {
		if u.Email == email {
			return fmt.Errorf("email already used: %w", models.ErrConflict)
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.Email = email
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
}

func (f *fakeUserStore) HasRole(ctx context.Context, role string) (bool, error) {
	for _, u := range f.users {
		for _, r := range u.Roles {
			if r == role {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, id, name, email string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	if email != "" {
		lowered := strings.ToLower(email)
		for otherID, other := range f.users {
			if otherID != id && other.Email == lowered {
				return fmt.Errorf("email already used: %w", models.ErrConflict)
			}
		}
		u.Email = lowered
	}
	if name != "" {
		u.Name = name
	}
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id, hashed string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	u.Password = hashed
	return nil
}
