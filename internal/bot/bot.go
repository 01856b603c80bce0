package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"esports-schedule/internal/constants"
	"esports-schedule/internal/domain"
	"esports-schedule/internal/repository"
	"esports-schedule/internal/schedule"
	"esports-schedule/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const helpText = `Commands:
/lol <league> - upcoming LoL matches (LCK, LPL, LEC, LCS, MSI, WORLDS, LJL)
/valorant <league> - Valorant matches over the next 30 days (masters, emea, pacific, americas, na, japan, brazil)
/player <nickname> - search Valorant pro players
/news <game> - latest news (lol, valorant, overwatch)
/subscribe <game> - get news delivered to this chat
/unsubscribe <game> - stop news delivery`

// Bot is the Telegram presentation layer. It holds no schedule logic: every
// command delegates to a service and only formats the result.
type Bot struct {
	api         *tgbotapi.BotAPI
	scheduleSvc *service.ScheduleService
	newsSvc     *service.NewsService
	playerSvc   *service.PlayerService
	subRepo     *repository.SubscriptionRepository
	logger      zerolog.Logger
}

func New(token string, scheduleSvc *service.ScheduleService, newsSvc *service.NewsService, playerSvc *service.PlayerService, subRepo *repository.SubscriptionRepository, logger zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info().Str("account", api.Self.UserName).Msg("telegram bot authorized")
	return &Bot{
		api:         api,
		scheduleSvc: scheduleSvc,
		newsSvc:     newsSvc,
		playerSvc:   playerSvc,
		subRepo:     subRepo,
		logger:      logger,
	}, nil
}

// Run long-polls updates until the context is canceled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = constants.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info().Msg("telegram bot stopped")
			return
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	text := strings.TrimSpace(message.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	parts := strings.Fields(text)
	// strip the @botname suffix of group-chat commands
	command, _, _ := strings.Cut(strings.ToLower(parts[0]), "@")
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	switch command {
	case "/start", "/help":
		b.reply(message.Chat.ID, helpText)
	case "/lol":
		b.handleLoL(ctx, message.Chat.ID, arg)
	case "/valorant":
		b.handleValorant(ctx, message.Chat.ID, arg)
	case "/player":
		b.handlePlayer(ctx, message.Chat.ID, arg)
	case "/news":
		b.handleNews(ctx, message.Chat.ID, arg)
	case "/subscribe":
		b.handleSubscribe(ctx, message.Chat.ID, arg)
	case "/unsubscribe":
		b.handleUnsubscribe(ctx, message.Chat.ID, arg)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleLoL(ctx context.Context, chatID int64, league string) {
	if league == "" {
		b.reply(chatID, "Usage: /lol <league>, e.g. /lol LCK")
		return
	}

	matches, err := b.scheduleSvc.UpcomingLoLMatches(ctx, league)
	b.sendMatches(chatID, league, matches, err)
}

func (b *Bot) handleValorant(ctx context.Context, chatID int64, league string) {
	if league == "" {
		b.reply(chatID, "Usage: /valorant <league>, e.g. /valorant pacific")
		return
	}

	matches, err := b.scheduleSvc.ValorantSchedule(ctx, league)
	b.sendMatches(chatID, league, matches, err)
}

func (b *Bot) handlePlayer(ctx context.Context, chatID int64, nickname string) {
	if nickname == "" {
		b.reply(chatID, "Usage: /player <nickname>, e.g. /player mako")
		return
	}

	players, err := b.playerSvc.SearchPlayers(ctx, nickname)
	if err != nil {
		b.logger.Error().Err(err).Str("nickname", nickname).Msg("player command failed")
		b.reply(chatID, "Player search is temporarily unavailable, try again later.")
		return
	}
	if len(players) == 0 {
		b.reply(chatID, fmt.Sprintf("No players found for %q.", nickname))
		return
	}
	b.reply(chatID, formatPlayers(players))
}

func (b *Bot) sendMatches(chatID int64, league string, matches []domain.Match, err error) {
	switch {
	case errors.Is(err, schedule.ErrUnknownLeague) || errors.Is(err, schedule.ErrNoSeriesIDs):
		b.reply(chatID, fmt.Sprintf("No league found for %q. Use /help for the supported leagues.", league))
	case err != nil:
		b.logger.Error().Err(err).Str("league", league).Msg("schedule command failed")
		b.reply(chatID, "Schedule is temporarily unavailable, try again later.")
	case len(matches) == 0:
		b.reply(chatID, "No upcoming matches found.")
	default:
		b.reply(chatID, formatMatches(matches))
	}
}

func (b *Bot) handleNews(ctx context.Context, chatID int64, game string) {
	if game == "" {
		game = "lol"
	}

	articles, err := b.newsSvc.FreshArticles(ctx, game)
	if err != nil {
		b.logger.Error().Err(err).Str("game", game).Msg("news command failed")
		b.reply(chatID, "News is temporarily unavailable, try again later.")
		return
	}
	if len(articles) == 0 {
		b.reply(chatID, "No fresh news.")
		return
	}

	var sb strings.Builder
	for _, a := range articles {
		fmt.Fprintf(&sb, "%s\n%s\n\n", a.Title, a.LinkURL)
	}
	b.reply(chatID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleSubscribe(ctx context.Context, chatID int64, game string) {
	if game == "" {
		b.reply(chatID, "Usage: /subscribe <game>, e.g. /subscribe lol")
		return
	}

	if _, err := b.subRepo.Add(ctx, chatID, game); err != nil {
		b.reply(chatID, "Could not subscribe, try again later.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Subscribed this chat to %s news.", game))
}

func (b *Bot) handleUnsubscribe(ctx context.Context, chatID int64, game string) {
	if game == "" {
		b.reply(chatID, "Usage: /unsubscribe <game>, e.g. /unsubscribe lol")
		return
	}

	if err := b.subRepo.Remove(ctx, chatID, game); err != nil {
		b.reply(chatID, "Could not unsubscribe, try again later.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Unsubscribed this chat from %s news.", game))
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

// formatMatches renders one line per match. Sentinels show as "?" for a
// missing team and "-" for a missing score, matching what the canonical
// record guarantees.
func formatMatches(matches []domain.Match) string {
	var sb strings.Builder
	for _, m := range matches {
		home := m.HomeTeam
		if home == "" {
			home = "?"
		}
		away := m.AwayTeam
		if away == "" {
			away = "?"
		}

		line := fmt.Sprintf("%s  %s vs %s", m.StartTime.Format("01/02 15:04 MST"), home, away)
		if m.Status != domain.StatusBefore {
			line += fmt.Sprintf("  %s : %s", formatScore(m.HomeScore), formatScore(m.AwayScore))
		}
		if m.Status == domain.StatusEnd {
			line += "  (final)"
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

func formatScore(score *int) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *score)
}

var (
	parenPattern  = regexp.MustCompile(`[(（](.*?)[)）]`)
	hangulPattern = regexp.MustCompile(`[가-힣]`)
)

// extractKorean pulls a Korean name out of parentheses in a search hit's
// descriptive text. Returns "" when the parentheses hold no Hangul.
func extractKorean(text string) string {
	m := parenPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])
	if !hangulPattern.MatchString(name) {
		return ""
	}
	return name
}

// formatPlayers numbers the hits in page order, one line of name plus
// profile link each, and caps the message at one page of results.
func formatPlayers(players []domain.Player) string {
	shown := players
	if len(shown) > constants.PlayerResultsPerPage {
		shown = shown[:constants.PlayerResultsPerPage]
	}

	var sb strings.Builder
	for i, p := range shown {
		label := p.Nickname
		if korean := extractKorean(p.RealName); korean != "" {
			label = fmt.Sprintf("%s (%s)", p.Nickname, korean)
		} else if p.RealName != "" {
			label = fmt.Sprintf("%s (%s)", p.Nickname, p.RealName)
		}
		fmt.Fprintf(&sb, "%d. %s\n%s\n", i+1, label, p.ProfileURL)
	}
	if rest := len(players) - len(shown); rest > 0 {
		fmt.Fprintf(&sb, "and %d more on the full results page.", rest)
	}
	return strings.TrimSpace(sb.String())
}

// DeliverNews pushes fresh articles to every subscribed chat. The games are
// fetched concurrently; a failed game is logged and skipped so one broken
// feed never blocks the others.
func (b *Bot) DeliverNews(ctx context.Context, games []string) {
	g, gCtx := errgroup.WithContext(ctx)
	for _, game := range games {
		g.Go(func() error {
			articles, err := b.newsSvc.FreshArticles(gCtx, game)
			if err != nil {
				b.logger.Warn().Err(err).Str("game", game).Msg("news delivery fetch failed")
				return nil
			}
			if len(articles) == 0 {
				return nil
			}

			subs, err := b.subRepo.ListByGame(gCtx, game)
			if err != nil {
				b.logger.Error().Err(err).Str("game", game).Msg("failed to list subscriptions")
				return nil
			}

			var sb strings.Builder
			for _, a := range articles {
				fmt.Fprintf(&sb, "%s\n%s\n\n", a.Title, a.LinkURL)
			}
			text := strings.TrimSpace(sb.String())

			for _, sub := range subs {
				b.reply(sub.ChatID, text)
			}
			return nil
		})
	}
	_ = g.Wait()
}
