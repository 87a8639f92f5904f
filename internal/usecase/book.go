package usecase

import (
	"context"

	"bookreview/internal/entity"
)

// ListParams defines filters and pagination for listing books.
// Author and Genre are exact-match filters; empty string means "any".
type ListParams struct {
	Author string
	Genre  string
	Limit  int
	Offset int
}

// BookRepository defines the contract for book storage.
type BookRepository interface {
	// Create persists a new book and fills in its generated fields.
	Create(ctx context.Context, book *entity.Book) error
	// List returns a page of books in insertion order plus the total count
	// for the same filter.
	List(ctx context.Context, p ListParams) ([]entity.Book, int, error)
	// GetByID returns ErrNotFound when the book does not exist.
	GetByID(ctx context.Context, id string) (entity.Book, error)
	// Search matches q as a case-insensitive substring of title or author.
	Search(ctx context.Context, q string) ([]entity.Book, error)
}
