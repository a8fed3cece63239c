package repository

import (
	"context"

	"github.com/fitcert/backend/internal/model"
)

// DB is the minimal connectivity check used by the health endpoint.
type DB interface {
	Ping(ctx context.Context) error
}

// UserRepository is the persistence interface for the member/coach directory.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListCoaches(ctx context.Context, limit, offset int) ([]*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Suspend(ctx context.Context, id string, suspend bool) error
}
