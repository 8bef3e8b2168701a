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

type FlashcardRepository struct {
	Col *mongo.Collection
}

func NewFlashcardRepository(db *mongo.Database) *FlashcardRepository {
	return &FlashcardRepository{Col: db.Collection("flashcards")}
}

func (r *FlashcardRepository) Insert(ctx context.Context, card *models.Flashcard) error {
	card.ID = primitive.NewObjectID().Hex()
	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now
	if _, err := r.Col.InsertOne(ctx, card); err != nil {
		return fmt.Errorf("insert flashcard: %v: %w", err, models.ErrStorage)
	}
	return nil
}

func (r *FlashcardRepository) FindByID(ctx context.Context, id string) (*models.Flashcard, error) {
	var f models.Flashcard
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("flashcard %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find flashcard: %v: %w", err, models.ErrStorage)
	}
	return &f, nil
}

func (r *FlashcardRepository) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Flashcard, int64, error) {
	filter := bson.M{"owner_id": ownerID}
	total, err := r.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count flashcards: %v: %w", err, models.ErrStorage)
	}
	cur, err := r.Col.Find(ctx, filter, pageOptions(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list flashcards: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var cards []models.Flashcard
	if err := cur.All(ctx, &cards); err != nil {
		return nil, 0, fmt.Errorf("decode flashcards: %v: %w", err, models.ErrStorage)
	}
	return cards, total, nil
}

func (r *FlashcardRepository) Update(ctx context.Context, id, ownerID string, card *models.Flashcard) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id, "owner_id": ownerID}, bson.M{"$set": bson.M{
		"question":   card.Question,
		"answer":     card.Answer,
		"topic":      card.Topic,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("update flashcard: %v: %w", err, models.ErrStorage)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("flashcard %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *FlashcardRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete flashcard: %v: %w", err, models.ErrStorage)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("flashcard %s: %w", id, models.ErrNotFound)
	}
	return nil
}
