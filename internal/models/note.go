package models

import "time"

// Note is a free-text study note. No invariants beyond ownership.
type Note struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	OwnerID      string    `bson:"owner_id" json:"owner_id"`
	Title        string    `bson:"title" json:"title"`
	Topic        string    `bson:"topic,omitempty" json:"topic,omitempty"`
	Content      string    `bson:"content" json:"content"`
	SourcePDFURL string    `bson:"source_pdf_url,omitempty" json:"source_pdf_url,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
