package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// FeedbackRepo stores guest feedback.  Plain append-and-list, no
// concurrency contract.
type FeedbackRepo struct {
	db *sql.DB
}

// NewFeedbackRepo returns a new FeedbackRepo bound to the given database.
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Create inserts a feedback row, stamping SubmittedAt when unset, and
// populates the generated id.
func (r *FeedbackRepo) Create(ctx context.Context, fb *model.Feedback) error {
	if fb.SubmittedAt.IsZero() {
		fb.SubmittedAt = time.Now().UTC()
	}
	const q = `INSERT INTO feedback (user_id, rating, comment, submitted_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, fb.UserID, fb.Rating, fb.Comment, fb.SubmittedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fb.ID = uint64(id)
	return nil
}

// ListByUser returns a user's feedback, newest first.
func (r *FeedbackRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Feedback, error) {
	const q = `SELECT id, user_id, rating, comment, submitted_at
	           FROM feedback WHERE user_id = ? ORDER BY submitted_at DESC`
	return r.query(ctx, q, userID)
}

// ListAll returns every feedback entry, newest first.  Admin only.
func (r *FeedbackRepo) ListAll(ctx context.Context) ([]model.Feedback, error) {
	const q = `SELECT id, user_id, rating, comment, submitted_at
	           FROM feedback ORDER BY submitted_at DESC`
	return r.query(ctx, q)
}

func (r *FeedbackRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Feedback, 0)
	for rows.Next() {
		var fb model.Feedback
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.Rating, &fb.Comment, &fb.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
