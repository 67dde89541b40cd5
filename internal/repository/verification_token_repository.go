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

// verificationTokenRepository implements VerificationTokenRepository interface
type verificationTokenRepository struct {
	db *database.Postgres
}

// NewVerificationTokenRepository creates a new verification token repository
func NewVerificationTokenRepository(db *database.Postgres) VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

// Create creates a new verification token
func (r *verificationTokenRepository) Create(ctx context.Context, token *domain.VerificationToken) error {
	query := `
		INSERT INTO verification_tokens (id, uid, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if token.ID == "" {
		token.ID = uuid.New().String()
	}

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		token.ID,
		token.UID,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("verification token with hash already exists: %w", ErrDuplicateToken)
			}
		}
		return fmt.Errorf("failed to create verification token: %w", err)
	}

	return nil
}

// Consume atomically marks an unused, unexpired token as used and returns it.
// The UPDATE ... RETURNING guard makes a token usable at most once even under
// concurrent verification attempts.
func (r *verificationTokenRepository) Consume(ctx context.Context, tokenHash string) (*domain.VerificationToken, error) {
	query := `
		UPDATE verification_tokens
		SET used_at = $1
		WHERE token_hash = $2 AND used_at IS NULL AND expires_at > $1
		RETURNING id, uid, token_hash, expires_at, used_at, created_at
	`

	token := &domain.VerificationToken{}
	var usedAt sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, time.Now(), tokenHash).Scan(
		&token.ID,
		&token.UID,
		&token.TokenHash,
		&token.ExpiresAt,
		&usedAt,
		&token.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("verification token not usable: %w", ErrTokenConsumed)
		}
		return nil, fmt.Errorf("failed to consume verification token: %w", err)
	}

	if usedAt.Valid {
		token.UsedAt = &usedAt.Time
	}

	return token, nil
}

// DeleteExpired deletes all expired verification tokens
func (r *verificationTokenRepository) DeleteExpired(ctx context.Context) error {
	query := `DELETE FROM verification_tokens WHERE expires_at < $1`

	_, err := r.db.DB.ExecContext(ctx, query, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete expired verification tokens: %w", err)
	}

	return nil
}
