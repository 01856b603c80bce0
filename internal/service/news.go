package service

import (
	"context"
	"fmt"
	"sort"

	"esports-schedule/internal/constants"
	"esports-schedule/internal/domain"

	"github.com/rs/zerolog"
)

// NewsProvider is the transport for the upstream news listing.
type NewsProvider interface {
	NewsList(ctx context.Context, newsType, day string, pageSize int) (map[string]any, error)
}

// NewsStateStore keeps the per-game delivery watermark.
type NewsStateStore interface {
	LastProcessedAt(ctx context.Context, game string) (int64, error)
	SetLastProcessedAt(ctx context.Context, game string, lastAt int64) error
}

type NewsService struct {
	provider  NewsProvider
	stateRepo NewsStateStore
	logger    zerolog.Logger
	now       nowFunc
}

func NewNewsService(provider NewsProvider, stateRepo NewsStateStore, logger zerolog.Logger) *NewsService {
	return &NewsService{provider: provider, stateRepo: stateRepo, logger: logger, now: defaultNow}
}

// FreshArticles returns today's articles for a game that are newer than the
// delivery watermark, oldest first, and advances the watermark. A transport
// failure yields an empty list plus the error, never a partial watermark
// update.
func (s *NewsService) FreshArticles(ctx context.Context, game string) ([]domain.NewsArticle, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	day := s.now().UTC().Format("2006-01-02")
	resp, err := s.provider.NewsList(ctx, game, day, constants.NewsPageSize)
	if err != nil {
		s.logger.Error().Err(err).Str("game", game).Msg("news fetch failed")
		return nil, fmt.Errorf("news fetch failed: %w", err)
	}

	lastAt, err := s.stateRepo.LastProcessedAt(ctx, game)
	if err != nil {
		return nil, err
	}

	articles := parseArticles(resp)
	fresh := make([]domain.NewsArticle, 0, len(articles))
	for _, a := range articles {
		if a.CreatedAt > lastAt {
			fresh = append(fresh, a)
		}
	}
	sort.SliceStable(fresh, func(i, j int) bool { return fresh[i].CreatedAt < fresh[j].CreatedAt })

	if len(fresh) > 0 {
		newest := fresh[len(fresh)-1].CreatedAt
		if err := s.stateRepo.SetLastProcessedAt(ctx, game, newest); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Str("game", game).Int("fresh", len(fresh)).Msg("news articles fetched")
	return fresh, nil
}

// parseArticles tolerantly extracts article fields; items missing a title
// or timestamp are skipped rather than failing the batch.
func parseArticles(resp map[string]any) []domain.NewsArticle {
	if resp == nil {
		return nil
	}
	items, ok := resp["content"].([]any)
	if !ok {
		return nil
	}

	out := make([]domain.NewsArticle, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, _ := obj["title"].(string)
		createdAt, ok := obj["createdAt"].(float64)
		if title == "" || !ok {
			continue
		}
		link, _ := obj["linkUrl"].(string)
		thumb, _ := obj["thumbnail"].(string)
		out = append(out, domain.NewsArticle{
			Title:     title,
			LinkURL:   link,
			ThumbURL:  thumb,
			CreatedAt: int64(createdAt),
		})
	}
	return out
}
