package models

import (
	"fmt"
	"time"
)

// Question types. Grading is dispatched on Type; the comparison mode is
// fixed per type and matches what was used at authoring time.
const (
	QuestionMCQ       = "mcq"
	QuestionTrueFalse = "true_false"
	QuestionShort     = "short"
)

// Question is one item of a quiz. Answer is the reference key; it is
// stripped from any student-facing payload before an attempt is finalized.
type Question struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Type        string    `bson:"type" json:"type"`
	Prompt      string    `bson:"prompt" json:"prompt"`
	Options     []string  `bson:"options,omitempty" json:"options,omitempty"`
	Answer      string    `bson:"answer" json:"answer,omitempty"`
	Explanation string    `bson:"explanation,omitempty" json:"explanation,omitempty"`
	Topic       string    `bson:"topic" json:"topic"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Validate checks the per-type authoring invariants: an MCQ needs at least
// two options and its key must be one of them; a true/false key must be
// "true" or "false"; a short answer just needs a non-empty key.
func (q *Question) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("%w: question prompt is required", ErrValidation)
	}
	switch q.Type {
	case QuestionMCQ:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: mcq needs at least 2 options", ErrValidation)
		}
		for _, opt := range q.Options {
			if opt == q.Answer {
				return nil
			}
		}
		return fmt.Errorf("%w: mcq answer must be one of the options", ErrValidation)
	case QuestionTrueFalse:
		if q.Answer != "true" && q.Answer != "false" {
			return fmt.Errorf("%w: true_false answer must be \"true\" or \"false\"", ErrValidation)
		}
		return nil
	case QuestionShort:
		if q.Answer == "" {
			return fmt.Errorf("%w: short answer key is required", ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrValidation, q.Type)
	}
}

// Grade scores a selected answer against the key. Comparison is exact and
// case-sensitive for every type; an empty selection never matches.
func (q *Question) Grade(selected string) bool {
	if selected == "" {
		return false
	}
	switch q.Type {
	case QuestionMCQ:
		return selected == q.Answer
	case QuestionTrueFalse:
		return selected == q.Answer
	case QuestionShort:
		return selected == q.Answer
	default:
		return false
	}
}

// StripKey returns a copy safe to hand to a student mid-attempt.
func (q Question) StripKey() Question {
	q.Answer = ""
	q.Explanation = ""
	return q
}
