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

type RoomRepository struct {
	Col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{Col: db.Collection("quiz_rooms")}
}

// EnsureIndexes creates the unique index on the join code. Codes are stored
// uppercased, so the index gives case-insensitive uniqueness; the bounded
// regenerate-and-retry loop in the room service is the compensating control
// for the generate/insert race.
func (r *RoomRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *RoomRepository) Insert(ctx context.Context, room *models.QuizRoom) error {
	room.ID = primitive.NewObjectID().Hex()
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	_, err := r.Col.InsertOne(ctx, room)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("join code %q already in use: %w", room.Code, models.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert room: %v: %w", err, models.ErrStorage)
	}
	return nil
}

func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.QuizRoom, error) {
	var room models.QuizRoom
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find room: %v: %w", err, models.ErrStorage)
	}
	return &room, nil
}

func (r *RoomRepository) FindActiveByCode(ctx context.Context, code string) (*models.QuizRoom, error) {
	var room models.QuizRoom
	err := r.Col.FindOne(ctx, bson.M{"code": code, "active": true}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("no active room with code %s: %w", code, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find room by code: %v: %w", err, models.ErrStorage)
	}
	return &room, nil
}

// ListOpenPublic returns public, active rooms whose time window contains now.
func (r *RoomRepository) ListOpenPublic(ctx context.Context, now time.Time) ([]models.QuizRoom, error) {
	filter := bson.M{
		"visibility": models.VisibilityPublic,
		"active":     true,
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"opens_at": bson.M{"$exists": false}},
				bson.M{"opens_at": bson.M{"$lte": now}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"closes_at": bson.M{"$exists": false}},
				bson.M{"closes_at": bson.M{"$gte": now}},
			}},
		},
	}
	cur, err := r.Col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list open rooms: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var rooms []models.QuizRoom
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("decode rooms: %v: %w", err, models.ErrStorage)
	}
	return rooms, nil
}

func (r *RoomRepository) ListByLecturer(ctx context.Context, lecturerID string) ([]models.QuizRoom, error) {
	cur, err := r.Col.Find(ctx, bson.M{"lecturer_id": lecturerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list rooms: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var rooms []models.QuizRoom
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("decode rooms: %v: %w", err, models.ErrStorage)
	}
	return rooms, nil
}

func (r *RoomRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("update room: %v: %w", err, models.ErrStorage)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// AddParticipant is idempotent: joining twice leaves one entry.
func (r *RoomRepository) AddParticipant(ctx context.Context, id, userID string) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"participants": userID}, "$set": bson.M{"updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("add participant: %v: %w", err, models.ErrStorage)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete room: %v: %w", err, models.ErrStorage)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("room %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// List pages through every room regardless of state; the admin console is
// the only caller.
func (r *RoomRepository) List(ctx context.Context, page, limit int) ([]models.QuizRoom, int64, error) {
	total, err := r.Col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count rooms: %v: %w", err, models.ErrStorage)
	}
	cur, err := r.Col.Find(ctx, bson.M{}, pageOptions(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list rooms: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var rooms []models.QuizRoom
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, 0, fmt.Errorf("decode rooms: %v: %w", err, models.ErrStorage)
	}
	return rooms, total, nil
}

func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count rooms: %v: %w", err, models.ErrStorage)
	}
	return n, nil
}

func (r *RoomRepository) CountByQuiz(ctx context.Context, quizID string) (int64, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"quiz_id": quizID})
	if err != nil {
		return 0, fmt.Errorf("count rooms: %v: %w", err, models.ErrStorage)
	}
	return n, nil
}
