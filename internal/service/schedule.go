package service

import (
	"context"
	"fmt"
	"time"

	"esports-schedule/internal/constants"
	"esports-schedule/internal/domain"
	"esports-schedule/internal/schedule"

	"github.com/rs/zerolog"
)

// GraphQLScheduleProvider is the OP.GG transport the assembler needs: both
// games, one client. The service only cares that a failed fetch is
// distinguishable from a successful one.
type GraphQLScheduleProvider interface {
	ListPagedAllMatches(ctx context.Context, leagueID string, year, month, utcOffset int) (map[string]any, error)
	MatchesBySeries(ctx context.Context, serieIDs []string, from, to string) (map[string]any, error)
}

// RESTScheduleProvider is the Naver transport for month-based LoL queries.
type RESTScheduleProvider interface {
	ScheduleMonths(ctx context.Context, year, topLeagueID string) (map[string]any, error)
	MonthlySchedule(ctx context.Context, yearMonth, topLeagueID string) (map[string]any, error)
}

// kstLocation falls back to a fixed UTC+9 zone when the tz database is not
// available in the runtime image.
func kstLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

type ScheduleService struct {
	opgg   GraphQLScheduleProvider
	naver  RESTScheduleProvider
	table  *schedule.Table
	logger zerolog.Logger
	now    nowFunc
	kst    *time.Location
}

func NewScheduleService(opgg GraphQLScheduleProvider, naver RESTScheduleProvider, table *schedule.Table, logger zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		opgg:   opgg,
		naver:  naver,
		table:  table,
		logger: logger,
		now:    defaultNow,
		kst:    kstLocation(),
	}
}

// ValorantSchedule returns the matches of a Valorant league over the next
// 30 days, sorted by start time and converted to KST for presentation.
// An unknown alias fails with schedule.ErrUnknownLeague before any network
// call; a transport failure surfaces as a wrapped error so callers can tell
// "no such league" from "temporarily unavailable".
func (s *ScheduleService) ValorantSchedule(ctx context.Context, leagueInput string) ([]domain.Match, error) {
	res, err := s.table.Resolve(schedule.GameValorant, leagueInput)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	now := s.now().UTC()
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, constants.ValorantWindowDays).Format("2006-01-02")

	s.logger.Info().
		Str("league", res.Key).
		Strs("serie_ids", res.SerieIDs).
		Str("from", from).
		Str("to", to).
		Msg("fetching valorant schedule")

	resp, err := s.opgg.MatchesBySeries(ctx, res.SerieIDs, from, to)
	if err != nil {
		s.logger.Error().Err(err).Str("league", res.Key).Msg("valorant schedule fetch failed")
		return nil, fmt.Errorf("valorant schedule fetch failed: %w", err)
	}

	raws := schedule.GraphQLMatches(resp, "matchesBySeries")
	matches := schedule.NormalizeAll(raws, schedule.OpggContext, s.logger)
	schedule.SortByStartTime(matches)

	s.toKST(matches)
	return matches, nil
}

// toKST is the presentation step every schedule query ends with: normalized
// instants stay UTC internally, conversion happens only at this boundary.
func (s *ScheduleService) toKST(matches []domain.Match) {
	for i := range matches {
		matches[i].StartTime = matches[i].StartTime.In(s.kst)
	}
}

// LoLMonthlySchedule returns the matches of a LoL league for one calendar
// month via the GraphQL provider.
func (s *ScheduleService) LoLMonthlySchedule(ctx context.Context, leagueInput string, year, month int) ([]domain.Match, error) {
	res, err := s.table.Resolve(schedule.GameLoL, leagueInput)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	s.logger.Info().
		Str("league", res.Key).
		Int("year", year).
		Int("month", month).
		Msg("fetching lol monthly schedule")

	resp, err := s.opgg.ListPagedAllMatches(ctx, res.SerieIDs[0], year, month, constants.KSTOffsetMinutes)
	if err != nil {
		s.logger.Error().Err(err).Str("league", res.Key).Msg("lol schedule fetch failed")
		return nil, fmt.Errorf("lol schedule fetch failed: %w", err)
	}

	raws := schedule.GraphQLMatches(resp, "pagedAllMatches")
	matches := schedule.NormalizeAll(raws, schedule.OpggContext, s.logger)
	schedule.SortByStartTime(matches)
	s.toKST(matches)
	return matches, nil
}

// UpcomingLoLMatches walks the remaining months of the season via the REST
// provider and returns the next few matches starting today or later.
func (s *ScheduleService) UpcomingLoLMatches(ctx context.Context, leagueInput string) ([]domain.Match, error) {
	key, err := s.table.CanonicalKey(schedule.GameLoL, leagueInput)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	monthsResp, err := s.naver.ScheduleMonths(ctx, now.Format("2006"), key)
	if err != nil {
		s.logger.Error().Err(err).Str("league", key).Msg("schedule months fetch failed")
		return nil, fmt.Errorf("schedule months fetch failed: %w", err)
	}

	months := scheduleMonths(monthsResp, now.Format("2006-01"))

	var upcoming []domain.Match
	for _, ym := range months {
		monthResp, err := s.naver.MonthlySchedule(ctx, ym, key)
		if err != nil {
			// one broken month must not sink the rest of the season
			s.logger.Warn().Err(err).Str("month", ym).Str("league", key).Msg("monthly schedule fetch failed")
			continue
		}

		raws := schedule.Flatten(monthResp, s.logger)
		for _, m := range schedule.NormalizeAll(raws, schedule.NaverContext, s.logger) {
			if !m.StartTime.Before(today) {
				upcoming = append(upcoming, m)
			}
		}
		if len(upcoming) >= constants.UpcomingMatchLimit {
			break
		}
	}

	schedule.SortByStartTime(upcoming)
	if len(upcoming) > constants.UpcomingMatchLimit {
		upcoming = upcoming[:constants.UpcomingMatchLimit]
	}
	s.toKST(upcoming)
	return upcoming, nil
}

// scheduleMonths extracts the month strings from a months response, keeping
// only the current month and later.
func scheduleMonths(resp map[string]any, nowYM string) []string {
	if resp == nil {
		return nil
	}
	items, ok := resp["content"].([]any)
	if !ok {
		return nil
	}

	var months []string
	for _, item := range items {
		ym, ok := item.(string)
		if !ok {
			continue
		}
		if ym >= nowYM {
			months = append(months, ym)
		}
	}
	return months
}
