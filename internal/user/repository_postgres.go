package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE reported for a unique index conflict.
const uniqueViolation = "23505"

// PostgresRepository keeps each user as a jsonb document next to the columns
// that need constraints.
type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

const (
	createUsersTableQuery = `
		CREATE TABLE IF NOT EXISTS users (
			id uuid PRIMARY KEY,
			email TEXT NOT NULL,
			doc jsonb NOT NULL,
			"createdAt" timestamptz NOT NULL,
			"updatedAt" timestamptz NOT NULL
		)
	`
	createEmailIndexQuery = `CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`

	insertUserQuery = `
		INSERT INTO users (id, email, doc, "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, $5)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTableQuery); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createEmailIndexQuery); err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	doc, err := json.Marshal(user)
	if err != nil {
		return User{}, err
	}

	_, err = r.db.ExecContext(ctx, insertUserQuery, user.ID, user.Email, doc, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, fmt.Errorf("%w: %v", ErrEmailExists, err)
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// isUniqueViolation understands errors from both the pgx and lib/pq drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
