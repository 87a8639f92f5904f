package store

// Repository implementation (Postgres)

import (
	"context"
	"errors"

	"bookreview/internal/entity"
	"bookreview/internal/usecase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookPG struct {
	db *pgxpool.Pool
}

func NewBookPG(db *pgxpool.Pool) *BookPG {
	return &BookPG{db: db}
}

func (r *BookPG) Create(ctx context.Context, book *entity.Book) error {
	const query = `
	INSERT INTO books (id, title, author, genre, description)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, book.Title, book.Author, book.Genre, book.Description).
		Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
}

func (r *BookPG) List(ctx context.Context, p usecase.ListParams) ([]entity.Book, int, error) {
	const query = `
	SELECT id, title, author, genre, description, created_at, updated_at
	FROM books
	WHERE ($1 = '' OR author = $1)
	AND ($2 = '' OR genre = $2)
	ORDER BY created_at, id
	LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, p.Author, p.Genre, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	const countQuery = `
	SELECT COUNT(*)
	FROM books
	WHERE ($1 = '' OR author = $1)
	AND ($2 = '' OR genre = $2)
	`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, p.Author, p.Genre).Scan(&total); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *BookPG) GetByID(ctx context.Context, id string) (entity.Book, error) {
	const query = `
	SELECT id, title, author, genre, description, created_at, updated_at
	FROM books
	WHERE id = $1
	LIMIT 1
	`
	var b entity.Book
	err := r.db.QueryRow(ctx, query, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, usecase.ErrNotFound
		}
		return entity.Book{}, err
	}
	return b, nil
}

func (r *BookPG) Search(ctx context.Context, q string) ([]entity.Book, error) {
	// Unanchored, case-insensitive substring match over title or author.
	const query = `
	SELECT id, title, author, genre, description, created_at, updated_at
	FROM books
	WHERE title ILIKE '%' || $1 || '%'
	OR author ILIKE '%' || $1 || '%'
	ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
