package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
)

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type postgresRepo struct {
	db     DBTX
	logger *zap.Logger
}

// NewPostgres keeps one row per scope in storefront_states.
func NewPostgres(db DBTX, logger *zap.Logger) Repository {
	return &postgresRepo{db: db, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) Load(ctx context.Context, scope string) ([]byte, error) {
	const q = `
SELECT blob
FROM storefront_states
WHERE scope = $1
`
	var blob string
	if err := r.db.QueryRow(ctx, q, scope).Scan(&blob); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Debug("state repo: load failed", zap.String("scope", scope), zap.Error(err))
		return nil, fmt.Errorf("select state: %w", err)
	}
	return []byte(blob), nil
}

func (r *postgresRepo) Save(ctx context.Context, scope string, blob []byte) error {
	const q = `
INSERT INTO storefront_states (scope, blob, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (scope) DO UPDATE
SET blob = EXCLUDED.blob,
    updated_at = now()
`
	if _, err := r.db.Exec(ctx, q, scope, string(blob)); err != nil {
		r.logger.Debug("state repo: save failed", zap.String("scope", scope), zap.Error(err))
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
