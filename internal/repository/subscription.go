package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"esports-schedule/internal/domain"

	"github.com/jmoiron/sqlx"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type subscriptionRow struct {
	ID        string    `db:"id"`
	ChatID    int64     `db:"chat_id"`
	Game      string    `db:"game"`
	CreatedAt time.Time `db:"created_at"`
}

type SubscriptionRepository struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewSubscriptionRepository(db *sqlx.DB, logger zerolog.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, logger: logger}
}

// Add subscribes a chat to news for a game. Subscribing twice is a no-op.
func (r *SubscriptionRepository) Add(ctx context.Context, chatID int64, game string) (*domain.Subscription, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription id: %w", err)
	}

	sub := &domain.Subscription{
		ID:        id,
		ChatID:    chatID,
		Game:      game,
		CreatedAt: time.Now(),
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, chat_id, game, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (chat_id, game) DO NOTHING`,
		sub.ID, sub.ChatID, sub.Game, sub.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("chat_id", chatID).Str("game", game).Msg("failed to add subscription")
		return nil, fmt.Errorf("failed to add subscription: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to add subscription: %w", err)
	}
	if affected == 0 {
		// the chat was already subscribed, hand back the stored row so the
		// returned ID always matches the database
		return r.get(ctx, chatID, game)
	}
	return sub, nil
}

func (r *SubscriptionRepository) get(ctx context.Context, chatID int64, game string) (*domain.Subscription, error) {
	var row subscriptionRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, chat_id, game, created_at FROM subscriptions WHERE chat_id = ? AND game = ?`,
		chatID, game)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &domain.Subscription{
		ID:        row.ID,
		ChatID:    row.ChatID,
		Game:      row.Game,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *SubscriptionRepository) Remove(ctx context.Context, chatID int64, game string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE chat_id = ? AND game = ?`, chatID, game)
	if err != nil {
		r.logger.Error().Err(err).Int64("chat_id", chatID).Str("game", game).Msg("failed to remove subscription")
		return fmt.Errorf("failed to remove subscription: %w", err)
	}
	return nil
}

// ListByGame returns every chat subscribed to a game's news.
func (r *SubscriptionRepository) ListByGame(ctx context.Context, game string) ([]domain.Subscription, error) {
	var rows []subscriptionRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, chat_id, game, created_at FROM subscriptions WHERE game = ? ORDER BY created_at`, game)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []domain.Subscription{}, nil
		}
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs := make([]domain.Subscription, len(rows))
	for i, row := range rows {
		subs[i] = domain.Subscription{
			ID:        row.ID,
			ChatID:    row.ChatID,
			Game:      row.Game,
			CreatedAt: row.CreatedAt,
		}
	}
	return subs, nil
}
