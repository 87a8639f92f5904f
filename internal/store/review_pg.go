package store

import (
	"context"
	"database/sql"
	"errors"

	"bookreview/internal/entity"
	"bookreview/internal/usecase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type ReviewPG struct {
	db *pgxpool.Pool
}

func NewReviewPG(db *pgxpool.Pool) *ReviewPG {
	return &ReviewPG{db: db}
}

// Create inserts a new review. The reviews table carries a composite unique
// key on (book_id, user_id), so a duplicate submission loses at the store
// rather than in a racy existence check.
func (r *ReviewPG) Create(ctx context.Context, review *entity.Review) error {
	const query = `
	INSERT INTO reviews (id, book_id, user_id, rating, comment)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, review.BookID, review.UserID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return usecase.ErrConflict
			case pgForeignKeyViolation:
				return usecase.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (r *ReviewPG) ListByBook(ctx context.Context, bookID string, limit, offset int) ([]entity.Review, int, error) {
	const query = `
	SELECT r.id, r.book_id, r.user_id, u.username, r.rating, r.comment, r.created_at, r.updated_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	WHERE r.book_id = $1
	ORDER BY r.created_at, r.id
	LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, bookID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []entity.Review
	for rows.Next() {
		var rv entity.Review
		if err := rows.Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Username, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = $1`, bookID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// AverageRating returns nil when the book has no reviews, so callers can
// render JSON null instead of a misleading zero.
func (r *ReviewPG) AverageRating(ctx context.Context, bookID string) (*float64, error) {
	const query = `
	SELECT AVG(rating)::FLOAT
	FROM reviews
	WHERE book_id = $1
	`
	var average sql.NullFloat64
	if err := r.db.QueryRow(ctx, query, bookID).Scan(&average); err != nil {
		return nil, err
	}
	if !average.Valid {
		return nil, nil
	}
	return &average.Float64, nil
}

func (r *ReviewPG) GetByID(ctx context.Context, id string) (entity.Review, error) {
	const query = `
	SELECT id, book_id, user_id, rating, comment, created_at, updated_at
	FROM reviews
	WHERE id = $1
	LIMIT 1
	`
	var rv entity.Review
	err := r.db.QueryRow(ctx, query, id).
		Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Review{}, usecase.ErrNotFound
		}
		return entity.Review{}, err
	}
	return rv, nil
}

func (r *ReviewPG) Update(ctx context.Context, id string, upd usecase.ReviewUpdate) (entity.Review, error) {
	const query = `
	UPDATE reviews
	SET rating = COALESCE($2, rating),
	    comment = COALESCE($3, comment),
	    updated_at = now()
	WHERE id = $1
	RETURNING id, book_id, user_id, rating, comment, created_at, updated_at
	`
	var rv entity.Review
	err := r.db.QueryRow(ctx, query, id, upd.Rating, upd.Comment).
		Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Review{}, usecase.ErrNotFound
		}
		return entity.Review{}, err
	}
	return rv, nil
}

func (r *ReviewPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}
