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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QuestionRepository struct {
	Col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{Col: db.Collection("questions")}
}

func (r *QuestionRepository) Insert(ctx context.Context, q *models.Question) error {
	q.ID = primitive.NewObjectID().Hex()
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now
	if _, err := r.Col.InsertOne(ctx, q); err != nil {
		return fmt.Errorf("insert question: %v: %w", err, models.ErrStorage)
	}
	return nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("question %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %v: %w", err, models.ErrStorage)
	}
	return &q, nil
}

// FindByIDs loads questions preserving the order of ids, which is the
// quiz's authoritative grading order.
func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.Col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find questions: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	byID := make(map[string]models.Question, len(ids))
	for cur.Next(ctx) {
		var q models.Question
		if err := cur.Decode(&q); err != nil {
			return nil, fmt.Errorf("decode question: %v: %w", err, models.ErrStorage)
		}
		byID[q.ID] = q
	}
	ordered := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

func (r *QuestionRepository) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Question, int64, error) {
	filter := bson.M{"owner_id": ownerID}
	total, err := r.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count questions: %v: %w", err, models.ErrStorage)
	}
	cur, err := r.Col.Find(ctx, filter, pageOptions(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, 0, fmt.Errorf("decode questions: %v: %w", err, models.ErrStorage)
	}
	return questions, total, nil
}

// Update rewrites the mutable fields of an owner's question.
func (r *QuestionRepository) Update(ctx context.Context, id, ownerID string, q *models.Question) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id, "owner_id": ownerID}, bson.M{"$set": bson.M{
		"type":        q.Type,
		"prompt":      q.Prompt,
		"options":     q.Options,
		"answer":      q.Answer,
		"explanation": q.Explanation,
		"topic":       q.Topic,
		"updated_at":  time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("update question: %v: %w", err, models.ErrStorage)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("question %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete question: %v: %w", err, models.ErrStorage)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("question %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// pageOptions converts 1-based page/limit into find options, newest first.
func pageOptions(page, limit int) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
}
