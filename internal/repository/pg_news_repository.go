package repository

import (
	"context"
	"errors"

	"github.com/fitcert/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgArticleRepository is the PostgreSQL implementation of ArticleRepository.
type PgArticleRepository struct {
	pool *pgxpool.Pool
}

// NewPgArticleRepository creates a PgArticleRepository backed by the given pool.
func NewPgArticleRepository(pool *pgxpool.Pool) *PgArticleRepository {
	return &PgArticleRepository{pool: pool}
}

var _ ArticleRepository = (*PgArticleRepository)(nil)

const articleSelectCols = `id, slug, title, COALESCE(summary, ''), body, published_at, created_at, updated_at`

func scanArticle(scan func(...any) error) (*model.Article, error) {
	var a model.Article
	if err := scan(&a.ID, &a.Slug, &a.Title, &a.Summary, &a.Body,
		&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByID returns the article with the given id.
func (r *PgArticleRepository) FindByID(ctx context.Context, id string) (*model.Article, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+articleSelectCols+` FROM articles WHERE id = $1`, id)
	return scanArticle(row.Scan)
}

// FindBySlug returns the article with the given slug.
func (r *PgArticleRepository) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+articleSelectCols+` FROM articles WHERE slug = $1`, slug)
	return scanArticle(row.Scan)
}

// List returns articles newest-first, optionally restricted to published ones.
func (r *PgArticleRepository) List(ctx context.Context, opts model.ArticleListOptions) ([]*model.Article, error) {
	where := ""
	if opts.PublishedOnly {
		where = "WHERE published_at IS NOT NULL AND published_at <= NOW()"
	}

	query := `SELECT ` + articleSelectCols + ` FROM articles ` + where +
		` ORDER BY COALESCE(published_at, created_at) DESC
		  LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*model.Article
	for rows.Next() {
		a, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Create inserts a new article and populates ID and timestamps.
func (r *PgArticleRepository) Create(ctx context.Context, a *model.Article) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO articles (slug, title, summary, body, published_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		 RETURNING id, created_at, updated_at`,
		a.Slug, a.Title, a.Summary, a.Body, a.PublishedAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update rewrites all mutable columns of an article.
func (r *PgArticleRepository) Update(ctx context.Context, a *model.Article) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE articles
		 SET slug = $1, title = $2, summary = NULLIF($3, ''), body = $4,
		     published_at = $5, updated_at = NOW()
		 WHERE id = $6`,
		a.Slug, a.Title, a.Summary, a.Body, a.PublishedAt, a.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an article.
func (r *PgArticleRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
