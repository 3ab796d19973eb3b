package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"tasktracker/backend/internal/user/domain"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUser = `SELECT id, email, name, password_hash, refresh_token_hash, created_at FROM users`

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, email))
}

// Create persists the user. The user must have ID and CreatedAt set; they are not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, refresh_token_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, nullString(u.RefreshTokenHash), u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrEmailTaken
	}
	return err
}

// SetRefreshTokenHash overwrites the user's refresh_token_hash. A nil hash stores NULL.
// Updating a missing user is not an error.
func (r *PostgresRepository) SetRefreshTokenHash(ctx context.Context, userID string, hash *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET refresh_token_hash = $2 WHERE id = $1`, userID, nullString(hash))
	return err
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var (
		u       domain.User
		refresh sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &refresh, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if refresh.Valid {
		s := refresh.String
		u.RefreshTokenHash = &s
	}
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
