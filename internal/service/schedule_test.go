package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"esports-schedule/internal/domain"
	"esports-schedule/internal/schedule"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpgg struct {
	pagedResp  map[string]any
	seriesResp map[string]any
	err        error

	calls        int
	gotSerieIDs  []string
	gotFrom      string
	gotTo        string
	gotLeagueID  string
	gotYear      int
	gotMonth     int
	gotUTCOffset int
}

func (f *fakeOpgg) ListPagedAllMatches(_ context.Context, leagueID string, year, month, utcOffset int) (map[string]any, error) {
	f.calls++
	f.gotLeagueID = leagueID
	f.gotYear = year
	f.gotMonth = month
	f.gotUTCOffset = utcOffset
	return f.pagedResp, f.err
}

func (f *fakeOpgg) MatchesBySeries(_ context.Context, serieIDs []string, from, to string) (map[string]any, error) {
	f.calls++
	f.gotSerieIDs = serieIDs
	f.gotFrom = from
	f.gotTo = to
	return f.seriesResp, f.err
}

type fakeNaver struct {
	monthsResp map[string]any
	monthResps map[string]map[string]any
	monthsErr  error
	monthErr   error
	gotMonths  []string
}

func (f *fakeNaver) ScheduleMonths(_ context.Context, year, topLeagueID string) (map[string]any, error) {
	return f.monthsResp, f.monthsErr
}

func (f *fakeNaver) MonthlySchedule(_ context.Context, yearMonth, topLeagueID string) (map[string]any, error) {
	f.gotMonths = append(f.gotMonths, yearMonth)
	if f.monthErr != nil {
		return nil, f.monthErr
	}
	return f.monthResps[yearMonth], nil
}

func newTestService(opgg *fakeOpgg, naver *fakeNaver, now time.Time) *ScheduleService {
	table, err := schedule.LoadTable("", zerolog.Nop())
	if err != nil {
		panic(err)
	}
	svc := NewScheduleService(opgg, naver, table, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

func seriesMatch(id, scheduledAt, status string) map[string]any {
	return map[string]any{
		"id":          id,
		"scheduledAt": scheduledAt,
		"status":      status,
		"homeTeam":    map[string]any{"acronym": "HOME", "imageUrl": "https://cdn/h.png"},
		"awayTeam":    map[string]any{"acronym": "AWAY", "imageUrl": "https://cdn/a.png"},
	}
}

func TestValorantSchedule_EndToEnd(t *testing.T) {
	t.Parallel()

	opgg := &fakeOpgg{
		seriesResp: map[string]any{
			"data": map[string]any{
				"matchesBySeries": []any{
					seriesMatch("m2", "2025-03-11T08:00:00Z", "finished"),
					seriesMatch("m1", "2025-03-10T08:00:00Z", "not_started"),
				},
			},
		},
	}
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	svc := newTestService(opgg, &fakeNaver{}, now)

	matches, err := svc.ValorantSchedule(context.Background(), "퍼시픽")
	require.NoError(t, err)

	assert.Equal(t, []string{"622", "590", "566"}, opgg.gotSerieIDs)
	assert.Equal(t, "2025-03-09", opgg.gotFrom)
	assert.Equal(t, "2025-04-08", opgg.gotTo)

	require.Len(t, matches, 2)
	assert.Equal(t, "m1", matches[0].MatchID)
	assert.Equal(t, domain.StatusBefore, matches[0].Status)
	assert.Equal(t, "m2", matches[1].MatchID)
	assert.Equal(t, domain.StatusEnd, matches[1].Status)

	// instants are converted to KST for presentation but stay the same moment
	assert.Equal(t, 9*60*60, zoneOffset(matches[0].StartTime))
	assert.True(t, matches[0].StartTime.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)))
}

func zoneOffset(t time.Time) int {
	_, offset := t.Zone()
	return offset
}

func TestValorantSchedule_SortsByStartTime(t *testing.T) {
	t.Parallel()

	opgg := &fakeOpgg{
		seriesResp: map[string]any{
			"data": map[string]any{
				"matchesBySeries": []any{
					seriesMatch("second", "2025-03-11T08:00:00Z", "not_started"),
					seriesMatch("first", "2025-03-10T08:00:00Z", "not_started"),
					seriesMatch("third", "2025-03-12T08:00:00Z", "not_started"),
				},
			},
		},
	}
	svc := newTestService(opgg, &fakeNaver{}, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))

	matches, err := svc.ValorantSchedule(context.Background(), "pacific")
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "first", matches[0].MatchID)
	assert.Equal(t, "second", matches[1].MatchID)
	assert.Equal(t, "third", matches[2].MatchID)
}

func TestValorantSchedule_UnknownAliasSkipsNetwork(t *testing.T) {
	t.Parallel()

	opgg := &fakeOpgg{}
	svc := newTestService(opgg, &fakeNaver{}, time.Now())

	_, err := svc.ValorantSchedule(context.Background(), "nope")
	require.ErrorIs(t, err, schedule.ErrUnknownLeague)
	assert.Zero(t, opgg.calls, "resolver failure must not reach the transport")
}

func TestValorantSchedule_TransportFailure(t *testing.T) {
	t.Parallel()

	opgg := &fakeOpgg{err: errors.New("upstream 503")}
	svc := newTestService(opgg, &fakeNaver{}, time.Now())

	_, err := svc.ValorantSchedule(context.Background(), "pacific")
	require.Error(t, err)
	assert.NotErrorIs(t, err, schedule.ErrUnknownLeague)
}

func TestLoLMonthlySchedule(t *testing.T) {
	t.Parallel()

	opgg := &fakeOpgg{
		pagedResp: map[string]any{
			"data": map[string]any{
				"pagedAllMatches": []any{
					seriesMatch("lol1", "2025-09-02T09:00:00Z", "not_started"),
				},
			},
		},
	}
	svc := newTestService(opgg, &fakeNaver{}, time.Now())

	matches, err := svc.LoLMonthlySchedule(context.Background(), "LPL", 2025, 9)
	require.NoError(t, err)
	assert.Equal(t, "98", opgg.gotLeagueID)
	assert.Equal(t, 2025, opgg.gotYear)
	assert.Equal(t, 9, opgg.gotMonth)
	assert.Equal(t, 540, opgg.gotUTCOffset)
	require.Len(t, matches, 1)
	assert.Equal(t, "lol1", matches[0].MatchID)
	assert.Equal(t, 9*60*60, zoneOffset(matches[0].StartTime))
}

func naverMonth(ids ...map[string]any) map[string]any {
	items := make([]any, len(ids))
	for i, m := range ids {
		items[i] = m
	}
	return map[string]any{
		"code":    float64(200),
		"content": map[string]any{"matches": items},
	}
}

func naverMatch(id, start string) map[string]any {
	return map[string]any{
		"matchId":   id,
		"startDate": start,
		"status":    "not_started",
		"homeTeam":  map[string]any{"teamCode": "T1"},
		"awayTeam":  map[string]any{"teamCode": "GEN"},
	}
}

func TestUpcomingLoLMatches(t *testing.T) {
	t.Parallel()

	naver := &fakeNaver{
		monthsResp: map[string]any{
			"code":    float64(200),
			"content": []any{"2025-02", "2025-03", "2025-04"},
		},
		monthResps: map[string]map[string]any{
			"2025-03": naverMonth(
				naverMatch("past", "2025-03-01T08:00:00Z"),
				naverMatch("u1", "2025-03-20T08:00:00Z"),
				naverMatch("u2", "2025-03-21T08:00:00Z"),
			),
			"2025-04": naverMonth(
				naverMatch("u3", "2025-04-01T08:00:00Z"),
				naverMatch("u4", "2025-04-02T08:00:00Z"),
				naverMatch("u5", "2025-04-03T08:00:00Z"),
			),
		},
	}
	now := time.Date(2025, 3, 15, 13, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeOpgg{}, naver, now)

	matches, err := svc.UpcomingLoLMatches(context.Background(), "LCK")
	require.NoError(t, err)

	// past months are never fetched
	assert.Equal(t, []string{"2025-03", "2025-04"}, naver.gotMonths)

	require.Len(t, matches, 4)
	ids := []string{matches[0].MatchID, matches[1].MatchID, matches[2].MatchID, matches[3].MatchID}
	assert.Equal(t, []string{"u1", "u2", "u3", "u4"}, ids)

	// same presentation rule as the valorant path: report in KST, keep the moment
	assert.Equal(t, 9*60*60, zoneOffset(matches[0].StartTime))
	assert.True(t, matches[0].StartTime.Equal(time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC)))
}

func TestUpcomingLoLMatches_MonthsFetchFailure(t *testing.T) {
	t.Parallel()

	naver := &fakeNaver{monthsErr: errors.New("upstream down")}
	svc := newTestService(&fakeOpgg{}, naver, time.Now())

	_, err := svc.UpcomingLoLMatches(context.Background(), "LCK")
	require.Error(t, err)
	assert.NotErrorIs(t, err, schedule.ErrUnknownLeague)
}

func TestUpcomingLoLMatches_BrokenMonthIsSkipped(t *testing.T) {
	t.Parallel()

	naver := &fakeNaver{
		monthsResp: map[string]any{
			"code":    float64(200),
			"content": []any{"2025-03", "2025-04"},
		},
		monthResps: map[string]map[string]any{
			// 2025-03 missing: the fake returns nil, which Flatten treats
			// as a failed response
			"2025-04": naverMonth(naverMatch("only", "2025-04-10T08:00:00Z")),
		},
	}
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeOpgg{}, naver, now)

	matches, err := svc.UpcomingLoLMatches(context.Background(), "lck")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "only", matches[0].MatchID)
}
