package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fitcert/backend/internal/model"
	"github.com/fitcert/backend/internal/repository"
)

// ErrInvalidProgram is returned when a program fails the catalog rules.
var ErrInvalidProgram = errors.New("invalid program")

// ProgramService is the business logic for the certification catalog.
type ProgramService interface {
	List(ctx context.Context, opts model.ProgramListOptions) ([]*model.Program, error)
	Get(ctx context.Context, id string) (*model.Program, error)
	Create(ctx context.Context, p *model.Program) error
	Update(ctx context.Context, p *model.Program) error
	Delete(ctx context.Context, id string) error
}

type programServiceImpl struct {
	repo repository.ProgramRepository
}

// NewProgramService creates a ProgramService backed by the given repository.
func NewProgramService(repo repository.ProgramRepository) ProgramService {
	return &programServiceImpl{repo: repo}
}

var validLevels = map[string]bool{
	"foundation": true,
	"advanced":   true,
	"master":     true,
}

func normalizeProgram(p *model.Program) error {
	p.Slug = strings.TrimSpace(strings.ToLower(p.Slug))
	p.Title = strings.TrimSpace(p.Title)
	p.Level = strings.TrimSpace(strings.ToLower(p.Level))
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.Slug == "" || p.Title == "" || !validLevels[p.Level] ||
		p.PriceCents < 0 || p.DurationWeeks <= 0 {
		return ErrInvalidProgram
	}
	return nil
}

func (s *programServiceImpl) List(ctx context.Context, opts model.ProgramListOptions) ([]*model.Program, error) {
	return s.repo.List(ctx, opts)
}

func (s *programServiceImpl) Get(ctx context.Context, id string) (*model.Program, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *programServiceImpl) Create(ctx context.Context, p *model.Program) error {
	if err := normalizeProgram(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *programServiceImpl) Update(ctx context.Context, p *model.Program) error {
	if err := normalizeProgram(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *programServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
