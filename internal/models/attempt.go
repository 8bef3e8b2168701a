package models

import "time"

// Attempt states. An attempt leaves in_progress exactly once.
const (
	AttemptInProgress = "in_progress"
	AttemptSubmitted  = "submitted"
)

// Response is one graded answer. Responses are populated atomically at
// finalization, in the quiz's question order.
type Response struct {
	QuestionID string `bson:"question_id" json:"question_id"`
	Selected   string `bson:"selected" json:"selected"`
	Correct    bool   `bson:"correct" json:"correct"`
}

// Attempt is one student's pass at a room's quiz. AttemptNumber is 1-based
// and monotonic per (room, user); SubmittedAt is nil while in progress.
type Attempt struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	RoomID        string     `bson:"room_id" json:"room_id"`
	UserID        string     `bson:"user_id" json:"user_id"`
	AttemptNumber int        `bson:"attempt_number" json:"attempt_number"`
	Responses     []Response `bson:"responses" json:"responses"`
	Score         int        `bson:"score" json:"score"`
	Status        string     `bson:"status" json:"status"`
	StartedAt     time.Time  `bson:"started_at" json:"started_at"`
	SubmittedAt   *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
}

// Finalized reports whether the attempt has been graded.
func (a *Attempt) Finalized() bool { return a.Status == AttemptSubmitted }
