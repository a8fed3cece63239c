package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fitcert/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgProgramRepository is the PostgreSQL implementation of ProgramRepository.
type PgProgramRepository struct {
	pool *pgxpool.Pool
}

// NewPgProgramRepository creates a PgProgramRepository backed by the given pool.
func NewPgProgramRepository(pool *pgxpool.Pool) *PgProgramRepository {
	return &PgProgramRepository{pool: pool}
}

var _ ProgramRepository = (*PgProgramRepository)(nil)

const programSelectCols = `id, slug, title, description, level, price_cents, currency, duration_weeks, published, created_at, updated_at`

func scanProgram(scan func(...any) error) (*model.Program, error) {
	var p model.Program
	if err := scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.Level, &p.PriceCents,
		&p.Currency, &p.DurationWeeks, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByID returns the program with the given id.
func (r *PgProgramRepository) FindByID(ctx context.Context, id string) (*model.Program, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+programSelectCols+` FROM programs WHERE id = $1`, id)
	return scanProgram(row.Scan)
}

// FindBySlug returns the program with the given slug.
func (r *PgProgramRepository) FindBySlug(ctx context.Context, slug string) (*model.Program, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+programSelectCols+` FROM programs WHERE slug = $1`, slug)
	return scanProgram(row.Scan)
}

// List returns programs filtered by level/published and paginated.
func (r *PgProgramRepository) List(ctx context.Context, opts model.ProgramListOptions) ([]*model.Program, error) {
	var conditions []string
	var args []any

	if level := strings.TrimSpace(opts.Level); level != "" {
		args = append(args, level)
		conditions = append(conditions, "level = $"+strconv.Itoa(len(args)))
	}
	if opts.PublishedOnly {
		conditions = append(conditions, "published = TRUE")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, opts.Limit, opts.Offset)
	query := `SELECT ` + programSelectCols + ` FROM programs ` + where +
		` ORDER BY price_cents ASC, title ASC
		  LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []*model.Program
	for rows.Next() {
		p, err := scanProgram(rows.Scan)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// Create inserts a new program and populates ID and timestamps.
func (r *PgProgramRepository) Create(ctx context.Context, p *model.Program) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO programs (slug, title, description, level, price_cents, currency, duration_weeks, published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		p.Slug, p.Title, p.Description, p.Level, p.PriceCents, p.Currency, p.DurationWeeks, p.Published,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update rewrites all mutable columns of a program.
func (r *PgProgramRepository) Update(ctx context.Context, p *model.Program) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE programs
		 SET slug = $1, title = $2, description = $3, level = $4, price_cents = $5,
		     currency = $6, duration_weeks = $7, published = $8, updated_at = NOW()
		 WHERE id = $9`,
		p.Slug, p.Title, p.Description, p.Level, p.PriceCents, p.Currency, p.DurationWeeks, p.Published, p.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a program.
func (r *PgProgramRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
