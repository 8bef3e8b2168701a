package models

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// QuizRoom is a scheduled, time-boxed instance of a quiz. Students join by
// Code; Participants gates access when the room is private. A room is never
// deleted while attempts reference it.
type QuizRoom struct {
	ID               string     `bson:"_id,omitempty" json:"id"`
	QuizID           string     `bson:"quiz_id" json:"quiz_id"`
	LecturerID       string     `bson:"lecturer_id" json:"lecturer_id"`
	Code             string     `bson:"code" json:"code"`
	TimeLimitMinutes int        `bson:"time_limit_minutes,omitempty" json:"time_limit_minutes,omitempty"` // 0 = untimed
	MaxAttempts      int        `bson:"max_attempts" json:"max_attempts"`
	OpensAt          *time.Time `bson:"opens_at,omitempty" json:"opens_at,omitempty"`
	ClosesAt         *time.Time `bson:"closes_at,omitempty" json:"closes_at,omitempty"`
	Active           bool       `bson:"active" json:"active"`
	Visibility       string     `bson:"visibility" json:"visibility"`
	Participants     []string   `bson:"participants,omitempty" json:"participants,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

// CheckWindow evaluates the room's open/close bounds against now. Absent
// bounds are treated as always satisfied on that side.
func (r *QuizRoom) CheckWindow(now time.Time) error {
	if r.OpensAt != nil && now.Before(*r.OpensAt) {
		return ErrTooEarly
	}
	if r.ClosesAt != nil && now.After(*r.ClosesAt) {
		return ErrTooLate
	}
	return nil
}

// Deadline is the absolute submission cutoff for an attempt started at
// startedAt, or nil when the room is untimed.
func (r *QuizRoom) Deadline(startedAt time.Time) *time.Time {
	if r.TimeLimitMinutes <= 0 {
		return nil
	}
	d := startedAt.Add(time.Duration(r.TimeLimitMinutes) * time.Minute)
	return &d
}

// HasParticipant reports whether userID already joined a private room.
func (r *QuizRoom) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
