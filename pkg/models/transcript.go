package models

import "time"

// Transcript is one captured piece of dictated or recorded text, spooled
// until the auto-run scheduler processes it.
type Transcript struct {
	ID        string    `json:"id"    validate:"required"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"  validate:"required,min=1"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
