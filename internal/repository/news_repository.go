package repository

import (
	"context"

	"github.com/fitcert/backend/internal/model"
)

// ArticleRepository is the persistence interface for news articles.
type ArticleRepository interface {
	FindByID(ctx context.Context, id string) (*model.Article, error)
	FindBySlug(ctx context.Context, slug string) (*model.Article, error)
	List(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error)
	Create(ctx context.Context, a *model.Article) error
	Update(ctx context.Context, a *model.Article) error
	Delete(ctx context.Context, id string) error
}
