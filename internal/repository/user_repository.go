package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aurora/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	Col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{Col: db.Collection("users")}
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID().Hex()
	user.Email = strings.ToLower(user.Email)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.Col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("email already used: %w", models.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert user: %v: %w", err, models.ErrStorage)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %v: %w", err, models.ErrStorage)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.Col.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %v: %w", err, models.ErrStorage)
	}
	return &u, nil
}

// HasRole reports whether any account carries the role; the startup admin
// seed uses it to run only once.
func (r *UserRepository) HasRole(ctx context.Context, role string) (bool, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"roles": role})
	if err != nil {
		return false, fmt.Errorf("count users: %v: %w", err, models.ErrStorage)
	}
	return n > 0, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %v: %w", err, models.ErrStorage)
	}
	return n, nil
}

func (r *UserRepository) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	total, err := r.Col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %v: %w", err, models.ErrStorage)
	}
	cur, err := r.Col.Find(ctx, bson.M{}, pageOptions(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %v: %w", err, models.ErrStorage)
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %v: %w", err, models.ErrStorage)
	}
	return users, total, nil
}

// UpdateProfile changes name and/or email; empty fields are left untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, email string) error {
	set := bson.M{"updated_at": time.Now()}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = strings.ToLower(email)
	}
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("email already used: %w", models.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("update user: %v: %w", err, models.ErrStorage)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashed string) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": hashed, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("update user: %v: %w", err, models.ErrStorage)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) UpdateRoles(ctx context.Context, id string, roles []string) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"roles": roles, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("update user: %v: %w", err, models.ErrStorage)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %v: %w", err, models.ErrStorage)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}
