package usecase

import (
	"context"

	"bookreview/internal/entity"
)

// ReviewUpdate carries a partial update. Nil fields are left unchanged,
// so an explicit zero can never slip through as a no-op.
type ReviewUpdate struct {
	Rating  *int
	Comment *string
}

// ReviewRepository defines the contract for review storage.
type ReviewRepository interface {
	// Create persists a new review. Returns ErrConflict when this user has
	// already reviewed this book (enforced by the store's unique key, not by
	// a check-then-insert).
	Create(ctx context.Context, review *entity.Review) error
	// ListByBook returns a page of reviews (with the author's username
	// joined in) plus the total review count for the book.
	ListByBook(ctx context.Context, bookID string, limit, offset int) ([]entity.Review, int, error)
	// AverageRating returns the mean rating over all reviews for the book,
	// or nil when the book has no reviews.
	AverageRating(ctx context.Context, bookID string) (*float64, error)
	GetByID(ctx context.Context, id string) (entity.Review, error)
	Update(ctx context.Context, id string, upd ReviewUpdate) (entity.Review, error)
	Delete(ctx context.Context, id string) error
}
