package repository

import (
	"context"
	"errors"

	"github.com/fitcert/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserRepository is the PostgreSQL implementation of UserRepository.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository creates a PgUserRepository backed by the given pool.
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ UserRepository = (*PgUserRepository)(nil)

// Ping verifies database connectivity (DB interface).
func (r *PgUserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const userSelectCols = `id, email, name, role, COALESCE(headline, ''), COALESCE(bio, ''), COALESCE(city, ''), certifications, suspended_at, created_at, updated_at`

func scanUser(scan func(...any) error) (*model.User, error) {
	var u model.User
	if err := scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Headline, &u.Bio, &u.City,
		&u.Certifications, &u.SuspendedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID returns the user with the given id.
func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE id = $1`, id)
	return scanUser(row.Scan)
}

// FindByEmail returns the user with the given email address.
func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE email = $1`, email)
	return scanUser(row.Scan)
}

// ListCoaches returns active coaches ordered by name, paginated.
func (r *PgUserRepository) ListCoaches(ctx context.Context, limit, offset int) ([]*model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userSelectCols+` FROM users
		 WHERE role = $1 AND suspended_at IS NULL
		 ORDER BY name ASC LIMIT $2 OFFSET $3`,
		model.RoleCoach, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a new user and populates ID and timestamps.
func (r *PgUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, role, headline, bio, city, certifications)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)
		 RETURNING id, created_at, updated_at`,
		user.Email, user.Name, user.Role, user.Headline, user.Bio, user.City, user.Certifications,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// Suspend sets or clears the suspension timestamp for a user.
func (r *PgUserRepository) Suspend(ctx context.Context, id string, suspend bool) error {
	var tag string
	if suspend {
		tag = `UPDATE users SET suspended_at = NOW(), updated_at = NOW() WHERE id = $1`
	} else {
		tag = `UPDATE users SET suspended_at = NULL, updated_at = NOW() WHERE id = $1`
	}
	ct, err := r.pool.Exec(ctx, tag, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
