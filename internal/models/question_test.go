package models

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"valid mcq", Question{Type: QuestionMCQ, Prompt: "Pick", Options: []string{"A", "B"}, Answer: "A"}, false},
		{"mcq one option", Question{Type: QuestionMCQ, Prompt: "Pick", Options: []string{"A"}, Answer: "A"}, true},
		{"mcq key not an option", Question{Type: QuestionMCQ, Prompt: "Pick", Options: []string{"A", "B"}, Answer: "C"}, true},
		{"valid true_false", Question{Type: QuestionTrueFalse, Prompt: "Sky is blue", Answer: "true"}, false},
		{"true_false bad key", Question{Type: QuestionTrueFalse, Prompt: "Sky is blue", Answer: "yes"}, true},
		{"valid short", Question{Type: QuestionShort, Prompt: "Capital", Answer: "Paris"}, false},
		{"short empty key", Question{Type: QuestionShort, Prompt: "Capital", Answer: ""}, true},
		{"missing prompt", Question{Type: QuestionShort, Answer: "x"}, true},
		{"unknown type", Question{Type: "essay", Prompt: "Discuss", Answer: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() = %v, want a validation error", err)
			}
		})
	}
}

func TestQuestionGrade(t *testing.T) {
	tests := []struct {
		name     string
		q        Question
		selected string
		want     bool
	}{
		{"mcq match", Question{Type: QuestionMCQ, Answer: "A"}, "A", true},
		{"mcq miss", Question{Type: QuestionMCQ, Answer: "A"}, "B", false},
		{"true_false match", Question{Type: QuestionTrueFalse, Answer: "false"}, "false", true},
		{"short match", Question{Type: QuestionShort, Answer: "Paris"}, "Paris", true},
		{"short wrong case", Question{Type: QuestionShort, Answer: "Paris"}, "paris", false},
		{"empty never matches", Question{Type: QuestionShort, Answer: ""}, "", false},
		{"unknown type", Question{Type: "essay", Answer: "x"}, "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Grade(tt.selected); got != tt.want {
				t.Errorf("Grade(%q) = %v, want %v", tt.selected, got, tt.want)
			}
		})
	}
}

func TestStripKey(t *testing.T) {
	q := Question{ID: "q1", Type: QuestionShort, Prompt: "Capital", Answer: "Paris", Explanation: "It just is"}
	stripped := q.StripKey()
	if stripped.Answer != "" || stripped.Explanation != "" {
		t.Error("StripKey left the answer key or explanation in place")
	}
	if q.Answer != "Paris" {
		t.Error("StripKey mutated the original question")
	}
	if stripped.ID != q.ID || stripped.Prompt != q.Prompt {
		t.Error("StripKey dropped non-key fields")
	}
}
