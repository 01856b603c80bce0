package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type NewsStateRepository struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewNewsStateRepository(db *sqlx.DB, logger zerolog.Logger) *NewsStateRepository {
	return &NewsStateRepository{db: db, logger: logger}
}

// LastProcessedAt returns the newest article timestamp already delivered
// for a game, or 0 when nothing was delivered yet.
func (r *NewsStateRepository) LastProcessedAt(ctx context.Context, game string) (int64, error) {
	var lastAt int64
	err := r.db.GetContext(ctx, &lastAt,
		`SELECT last_processed_at FROM news_state WHERE game = ?`, game)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load news state: %w", err)
	}
	return lastAt, nil
}

// SetLastProcessedAt records the watermark for a game.
func (r *NewsStateRepository) SetLastProcessedAt(ctx context.Context, game string, lastAt int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO news_state (game, last_processed_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (game) DO UPDATE SET last_processed_at = excluded.last_processed_at, updated_at = excluded.updated_at`,
		game, lastAt, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("game", game).Int64("last_at", lastAt).Msg("failed to save news state")
		return fmt.Errorf("failed to save news state: %w", err)
	}
	return nil
}
