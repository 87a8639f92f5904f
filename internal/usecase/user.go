package usecase

import (
	"context"

	"bookreview/internal/entity"
)

// UserRepository defines the contract for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	GetByID(ctx context.Context, id string) (entity.User, error)
}
