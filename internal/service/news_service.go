package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fitcert/backend/internal/model"
	"github.com/fitcert/backend/internal/repository"
)

// ErrInvalidArticle is returned when an article fails the editorial rules.
var ErrInvalidArticle = errors.New("invalid article")

// NewsService is the business logic for news articles.
type NewsService interface {
	List(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error)
	Get(ctx context.Context, id string) (*model.Article, error)
	Create(ctx context.Context, a *model.Article) error
	Update(ctx context.Context, a *model.Article) error
	Delete(ctx context.Context, id string) error
}

type newsServiceImpl struct {
	repo repository.ArticleRepository
}

// NewNewsService creates a NewsService backed by the given repository.
func NewNewsService(repo repository.ArticleRepository) NewsService {
	return &newsServiceImpl{repo: repo}
}

func normalizeArticle(a *model.Article) error {
	a.Slug = strings.TrimSpace(strings.ToLower(a.Slug))
	a.Title = strings.TrimSpace(a.Title)
	a.Summary = strings.TrimSpace(a.Summary)
	if a.Slug == "" || a.Title == "" || strings.TrimSpace(a.Body) == "" {
		return ErrInvalidArticle
	}
	return nil
}

func (s *newsServiceImpl) List(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error) {
	return s.repo.List(ctx, opts)
}

func (s *newsServiceImpl) Get(ctx context.Context, id string) (*model.Article, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *newsServiceImpl) Create(ctx context.Context, a *model.Article) error {
	if err := normalizeArticle(a); err != nil {
		return err
	}
	return s.repo.Create(ctx, a)
}

func (s *newsServiceImpl) Update(ctx context.Context, a *model.Article) error {
	if err := normalizeArticle(a); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

func (s *newsServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
