package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fitcert/backend/internal/model"
)

type mockArticleRepository struct {
	createFunc func(ctx context.Context, a *model.Article) error
}

func (m *mockArticleRepository) FindByID(ctx context.Context, id string) (*model.Article, error) {
	return nil, nil
}

func (m *mockArticleRepository) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	return nil, nil
}

func (m *mockArticleRepository) List(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error) {
	return nil, nil
}

func (m *mockArticleRepository) Create(ctx context.Context, a *model.Article) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	return nil
}

func (m *mockArticleRepository) Update(ctx context.Context, a *model.Article) error { return nil }
func (m *mockArticleRepository) Delete(ctx context.Context, id string) error        { return nil }

func TestNewsService_Create_Normalizes(t *testing.T) {
	var saved *model.Article
	mock := &mockArticleRepository{
		createFunc: func(ctx context.Context, a *model.Article) error {
			saved = a
			return nil
		},
	}
	svc := NewNewsService(mock)

	a := &model.Article{Slug: " Summer-Camp ", Title: "  Summer camp dates  ", Body: "Dates announced."}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Slug != "summer-camp" {
		t.Errorf("expected normalized slug, got %q", saved.Slug)
	}
	if saved.Title != "Summer camp dates" {
		t.Errorf("expected trimmed title, got %q", saved.Title)
	}
}

func TestNewsService_Create_RequiresBody(t *testing.T) {
	svc := NewNewsService(&mockArticleRepository{})

	a := &model.Article{Slug: "s", Title: "t", Body: "   "}
	if err := svc.Create(context.Background(), a); !errors.Is(err, ErrInvalidArticle) {
		t.Errorf("expected ErrInvalidArticle, got %v", err)
	}
}
