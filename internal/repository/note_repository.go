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

type NoteRepository struct {
	Col *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{Col: db.Collection("notes")}
}

func (r *NoteRepository) Insert(ctx context.Context, note *models.Note) error {
	note.ID = primitive.NewObjectID().Hex()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	if _, err := r.Col.InsertOne(ctx, note); err != nil {
		return fmt.Errorf("insert note: %v: %w", err, models.ErrStorage)
	}
	return nil
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (*models.Note, error) {
	var n models.Note
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("note %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find note: %v: %w", err, models.ErrStorage)
	}
	return &n, nil
}

func (r *NoteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count notes: %v: %w", err, models.ErrStorage)
	}
	return n, nil
}

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Note, int64, error) {
	filter := bson.M{"owner_id": ownerID}
	total, err := r.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count notes: %v: %w", err, models.ErrStorage)
	}
	cur, err := r.Col.Find(ctx, filter, pageOptions(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, 0, fmt.Errorf("decode notes: %v: %w", err, models.ErrStorage)
	}
	return notes, total, nil
}

func (r *NoteRepository) Update(ctx context.Context, id, ownerID string, note *models.Note) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id, "owner_id": ownerID}, bson.M{"$set": bson.M{
		"title":      note.Title,
		"topic":      note.Topic,
		"content":    note.Content,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("update note: %v: %w", err, models.ErrStorage)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("note %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete note: %v: %w", err, models.ErrStorage)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("note %s: %w", id, models.ErrNotFound)
	}
	return nil
}
