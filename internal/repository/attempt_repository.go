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

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("attempts")}
}

// EnsureIndexes creates the partial unique index that enforces "at most one
// in-progress attempt per (room, user)". Two concurrent starts race on the
// insert and the loser gets a duplicate-key error, which the attempt service
// resolves by resuming the winner's attempt.
func (r *AttemptRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.AttemptInProgress}),
		},
		{
			Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	return err
}

func (r *AttemptRepository) Insert(ctx context.Context, attempt *models.Attempt) error {
	attempt.ID = primitive.NewObjectID().Hex()
	_, err := r.Col.InsertOne(ctx, attempt)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("attempt already in progress: %w", models.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert attempt: %v: %w", err, models.ErrStorage)
	}
	return nil
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*models.Attempt, error) {
	var a models.Attempt
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("attempt %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find attempt: %v: %w", err, models.ErrStorage)
	}
	return &a, nil
}

func (r *AttemptRepository) FindInProgress(ctx context.Context, roomID, userID string) (*models.Attempt, error) {
	var a models.Attempt
	err := r.Col.FindOne(ctx, bson.M{
		"room_id": roomID,
		"user_id": userID,
		"status":  models.AttemptInProgress,
	}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("no attempt in progress: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find attempt: %v: %w", err, models.ErrStorage)
	}
	return &a, nil
}

func (r *AttemptRepository) CountFinalized(ctx context.Context, roomID, userID string) (int, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{
		"room_id": roomID,
		"user_id": userID,
		"status":  models.AttemptSubmitted,
	})
	if err != nil {
		return 0, fmt.Errorf("count attempts: %v: %w", err, models.ErrStorage)
	}
	return int(n), nil
}

// MaxAttemptNumber returns the highest attempt_number ever recorded for
// (room, user), in any state. Numbering from this high-water mark keeps
// numbers unique even after an attempt is deleted.
func (r *AttemptRepository) MaxAttemptNumber(ctx context.Context, roomID, userID string) (int, error) {
	var a models.Attempt
	err := r.Col.FindOne(ctx,
		bson.M{"room_id": roomID, "user_id": userID},
		options.FindOne().SetSort(bson.D{{Key: "attempt_number", Value: -1}})).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find attempt: %v: %w", err, models.ErrStorage)
	}
	return a.AttemptNumber, nil
}

// CountByRoom counts attempts in any state; deleteRoom uses it to refuse
// removing rooms with recorded history.
func (r *AttemptRepository) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return 0, fmt.Errorf("count attempts: %v: %w", err, models.ErrStorage)
	}
	return n, nil
}

// Finalize performs the compare-and-set grade write: the update matches only
// while the attempt is still in progress, so exactly one of two concurrent
// submissions lands. Returns false when the attempt was already finalized.
func (r *AttemptRepository) Finalize(ctx context.Context, id string, responses []models.Response, score int, at time.Time) (bool, error) {
	res, err := r.Col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.AttemptInProgress},
		bson.M{"$set": bson.M{
			"responses":    responses,
			"score":        score,
			"status":       models.AttemptSubmitted,
			"submitted_at": at,
		}})
	if err != nil {
		return false, fmt.Errorf("finalize attempt: %v: %w", err, models.ErrStorage)
	}
	return res.MatchedCount == 1, nil
}

// ListFinalizedByRoom returns submitted attempts ordered score descending,
// earlier submission first on ties.
func (r *AttemptRepository) ListFinalizedByRoom(ctx context.Context, roomID string) ([]models.Attempt, error) {
	cur, err := r.Col.Find(ctx,
		bson.M{"room_id": roomID, "status": models.AttemptSubmitted},
		options.Find().SetSort(bson.D{{Key: "score", Value: -1}, {Key: "submitted_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list attempts: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var attempts []models.Attempt
	if err := cur.All(ctx, &attempts); err != nil {
		return nil, fmt.Errorf("decode attempts: %v: %w", err, models.ErrStorage)
	}
	return attempts, nil
}

func (r *AttemptRepository) ListByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list attempts: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var attempts []models.Attempt
	if err := cur.All(ctx, &attempts); err != nil {
		return nil, fmt.Errorf("decode attempts: %v: %w", err, models.ErrStorage)
	}
	return attempts, nil
}

// List pages through every attempt for the admin console, newest first.
func (r *AttemptRepository) List(ctx context.Context, page, limit int) ([]models.Attempt, int64, error) {
	total, err := r.Col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count attempts: %v: %w", err, models.ErrStorage)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	cur, err := r.Col.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetSkip(int64((page-1)*limit)).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("list attempts: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var attempts []models.Attempt
	if err := cur.All(ctx, &attempts); err != nil {
		return nil, 0, fmt.Errorf("decode attempts: %v: %w", err, models.ErrStorage)
	}
	return attempts, total, nil
}

func (r *AttemptRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete attempt: %v: %w", err, models.ErrStorage)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("attempt %s: %w", id, models.ErrNotFound)
	}
	return nil
}
