package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aurora/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

func (r *QuizRepository) Insert(ctx context.Context, quiz *models.Quiz) error {
	quiz.ID = primitive.NewObjectID().Hex()
	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	if _, err := r.Col.InsertOne(ctx, quiz); err != nil {
		return fmt.Errorf("insert quiz: %v: %w", err, models.ErrStorage)
	}
	return nil
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("quiz %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find quiz: %v: %w", err, models.ErrStorage)
	}
	return &quiz, nil
}

func (r *QuizRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count quizzes: %v: %w", err, models.ErrStorage)
	}
	return n, nil
}

func (r *QuizRepository) List(ctx context.Context, page, limit int) ([]models.Quiz, int64, error) {
	return r.list(ctx, bson.M{}, page, limit)
}

func (r *QuizRepository) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Quiz, int64, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID}, page, limit)
}

func (r *QuizRepository) list(ctx context.Context, filter bson.M, page, limit int) ([]models.Quiz, int64, error) {
	total, err := r.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count quizzes: %v: %w", err, models.ErrStorage)
	}
	cur, err := r.Col.Find(ctx, filter, pageOptions(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list quizzes: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var quizzes []models.Quiz
	if err := cur.All(ctx, &quizzes); err != nil {
		return nil, 0, fmt.Errorf("decode quizzes: %v: %w", err, models.ErrStorage)
	}
	return quizzes, total, nil
}

func (r *QuizRepository) Update(ctx context.Context, id, ownerID string, quiz *models.Quiz) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id, "owner_id": ownerID}, bson.M{"$set": bson.M{
		"title":        quiz.Title,
		"description":  quiz.Description,
		"topic":        quiz.Topic,
		"difficulty":   quiz.Difficulty,
		"question_ids": quiz.QuestionIDs,
		"updated_at":   time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("update quiz: %v: %w", err, models.ErrStorage)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("quiz %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *QuizRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete quiz: %v: %w", err, models.ErrStorage)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("quiz %s: %w", id, models.ErrNotFound)
	}
	return nil
}
