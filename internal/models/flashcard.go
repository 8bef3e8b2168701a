package models

import "time"

// Flashcard is a question/answer revision card owned by a user.
type Flashcard struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	Question  string    `bson:"question" json:"question"`
	Answer    string    `bson:"answer" json:"answer"`
	Topic     string    `bson:"topic" json:"topic"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
