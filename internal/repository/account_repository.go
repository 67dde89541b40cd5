package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heapsdsa/heapsauth/internal/domain"
	"github.com/heapsdsa/heapsauth/pkg/database"
	"github.com/lib/pq"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *database.Postgres
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.Postgres) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account in the database
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (uid, email, password_hash, created_at, updated_at, is_disabled, is_email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// Generate UID if not provided
	if account.UID == "" {
		account.UID = uuid.New().String()
	}

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		account.UID,
		account.Email,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
		account.IsDisabled,
		account.IsEmailVerified,
	)

	if err != nil {
		// Check for unique constraint violation (duplicate email)
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("account with email %s already exists: %w", account.Email, ErrDuplicateEmail)
			}
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByEmail retrieves an account by email
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT uid, email, password_hash, created_at, updated_at, last_login_at, is_disabled, is_email_verified
		FROM accounts
		WHERE email = $1
	`

	return r.scanOne(r.db.DB.QueryRowContext(ctx, query, email), "email", email)
}

// GetByUID retrieves an account by UID
func (r *accountRepository) GetByUID(ctx context.Context, uid string) (*domain.Account, error) {
	query := `
		SELECT uid, email, password_hash, created_at, updated_at, last_login_at, is_disabled, is_email_verified
		FROM accounts
		WHERE uid = $1
	`

	return r.scanOne(r.db.DB.QueryRowContext(ctx, query, uid), "uid", uid)
}

func (r *accountRepository) scanOne(row *sql.Row, keyName, key string) (*domain.Account, error) {
	account := &domain.Account{}
	var lastLoginAt sql.NullTime

	err := row.Scan(
		&account.UID,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
		&lastLoginAt,
		&account.IsDisabled,
		&account.IsEmailVerified,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with %s %s not found: %w", keyName, key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by %s: %w", keyName, err)
	}

	if lastLoginAt.Valid {
		account.LastLoginAt = &lastLoginAt.Time
	}

	return account, nil
}

// MarkEmailVerified sets the email-verified flag for an account
func (r *accountRepository) MarkEmailVerified(ctx context.Context, uid string) error {
	query := `
		UPDATE accounts
		SET is_email_verified = TRUE, updated_at = $1
		WHERE uid = $2
	`

	result, err := r.db.DB.ExecContext(ctx, query, time.Now(), uid)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("account with uid %s not found: %w", uid, ErrNotFound)
	}

	return nil
}

// UpdateLastLogin updates the last login timestamp for an account
func (r *accountRepository) UpdateLastLogin(ctx context.Context, uid string) error {
	query := `
		UPDATE accounts
		SET last_login_at = $1
		WHERE uid = $2
	`

	result, err := r.db.DB.ExecContext(ctx, query, time.Now(), uid)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("account with uid %s not found: %w", uid, ErrNotFound)
	}

	return nil
}
