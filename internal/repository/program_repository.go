package repository

import (
	"context"

	"github.com/fitcert/backend/internal/model"
)

// ProgramRepository is the persistence interface for the certification catalog.
type ProgramRepository interface {
	FindByID(ctx context.Context, id string) (*model.Program, error)
	FindBySlug(ctx context.Context, slug string) (*model.Program, error)
	List(ctx context.Context, opts model.ProgramListOptions) ([]*model.Program, error)
	Create(ctx context.Context, p *model.Program) error
	Update(ctx context.Context, p *model.Program) error
	Delete(ctx context.Context, id string) error
}
