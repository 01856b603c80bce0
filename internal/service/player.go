package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"esports-schedule/internal/api"
	"esports-schedule/internal/constants"
	"esports-schedule/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// PlayerSearchProvider is the transport for player lookups. The upstream
// serves HTML, so the provider returns whole pages for the service to parse.
type PlayerSearchProvider interface {
	SearchPage(ctx context.Context, query string) ([]byte, error)
}

type PlayerService struct {
	provider PlayerSearchProvider
	base     *url.URL
	logger   zerolog.Logger
}

func NewPlayerService(provider PlayerSearchProvider, logger zerolog.Logger) *PlayerService {
	base, _ := url.Parse(api.VlrBaseURL)
	return &PlayerService{provider: provider, base: base, logger: logger}
}

// SearchPlayers looks a nickname up and returns every hit in page order.
// Hits without a linked title are skipped; an empty result is not an error.
func (s *PlayerService) SearchPlayers(ctx context.Context, nickname string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	page, err := s.provider.SearchPage(ctx, nickname)
	if err != nil {
		s.logger.Error().Err(err).Str("nickname", nickname).Msg("player search fetch failed")
		return nil, fmt.Errorf("player search fetch failed: %w", err)
	}

	players, err := s.parseSearchPage(page)
	if err != nil {
		s.logger.Error().Err(err).Str("nickname", nickname).Msg("player search page unparseable")
		return nil, fmt.Errorf("player search parse failed: %w", err)
	}

	s.logger.Info().Str("nickname", nickname).Int("hits", len(players)).Msg("player search done")
	return players, nil
}

func (s *PlayerService) parseSearchPage(page []byte) ([]domain.Player, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	var players []domain.Player
	doc.Find("div.wf-card a").Each(func(_ int, sel *goquery.Selection) {
		nickname := strings.TrimSpace(sel.Find(".search-item-title").First().Text())
		if nickname == "" {
			return
		}

		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		players = append(players, domain.Player{
			Nickname:   nickname,
			RealName:   strings.TrimSpace(sel.Find(".search-item-desc").First().Text()),
			ProfileURL: s.base.ResolveReference(ref).String(),
		})
	})
	return players, nil
}
