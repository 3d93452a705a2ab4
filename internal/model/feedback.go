package model

import "time"

// Feedback is a guest's rating and comment.  Ratings run 1 to 5.
type Feedback struct {
	ID          uint64    `json:"id"`           // feedback.id
	UserID      uint64    `json:"user_id"`      // feedback.user_id
	Rating      uint8     `json:"rating"`       // feedback.rating
	Comment     string    `json:"comment"`      // feedback.comment
	SubmittedAt time.Time `json:"submitted_at"` // feedback.submitted_at
}
