package models

import "time"

// Quiz references its questions by id; the order of QuestionIDs is the
// authoritative grading order.
type Quiz struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Topic       string    `bson:"topic" json:"topic"`
	Difficulty  string    `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	QuestionIDs []string  `bson:"question_ids" json:"question_ids"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
