package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio_backend/platform/apperr"
)

const uniqueViolationCode = "23505"

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Roles        []string
	CreatedAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string, displayName *string, roles []string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, display_name, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, display_name, roles, created_at`,
		email, passwordHash, displayName, roles,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Roles, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return User{}, apperr.Conflict("an account with this email already exists").WithOp("auth.CreateUser")
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return r.getUser(ctx, `
		SELECT id, email, password_hash, display_name, roles, created_at
		FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return r.getUser(ctx, `
		SELECT id, email, password_hash, display_name, roles, created_at
		FROM users WHERE id = $1`, id)
}

func (r *Repository) getUser(ctx context.Context, query string, arg any) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Roles, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found").WithOp("auth.getUser")
		}
		return User{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}
