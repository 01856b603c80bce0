package schedule

import (
	"sort"
	"strconv"
	"time"

	"esports-schedule/internal/domain"

	"github.com/rs/zerolog"
)

// statusMap reconciles provider status vocabularies to the canonical enum.
// Unlisted values pass through unchanged so a new upstream state degrades to
// a readable string instead of breaking callers.
var statusMap = map[string]domain.MatchStatus{
	"not_started": domain.StatusBefore,
	"running":     domain.StatusStarted,
	"finished":    domain.StatusEnd,
}

// NormalizeStatus maps one raw provider status to the canonical three-state
// enum, passing unrecognized values through verbatim.
func NormalizeStatus(raw string) domain.MatchStatus {
	if s, ok := statusMap[raw]; ok {
		return s
	}
	return domain.MatchStatus(raw)
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeTime converts a raw timestamp to a zone-aware instant. Numbers
// are epoch milliseconds in UTC; strings are ISO-8601, with a zoneless
// string read as UTC. ok is false when the value is absent or unparseable.
func NormalizeTime(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case int64:
		return time.UnixMilli(v).UTC(), true
	case int:
		return time.UnixMilli(int64(v)).UTC(), true
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// ProviderContext names the accessor chains for one provider response
// family. Key order is contractual, same as the team key lists.
type ProviderContext struct {
	Provider      string
	IDKeys        []string
	TimeKeys      []string
	StatusKeys    []string
	LeagueKeys    []string
	StageKeys     []string
	HomeScoreKeys []string
	AwayScoreKeys []string
	NameKeys      []string
	LogoKeys      []string
}

// NaverContext covers the REST schedule family, whose field names drifted
// across response versions.
var NaverContext = ProviderContext{
	Provider:      "naver",
	IDKeys:        []string{"matchId", "id"},
	TimeKeys:      []string{"startDate", "startTime"},
	StatusKeys:    []string{"status", "matchStatus"},
	LeagueKeys:    []string{"leagueName", "league"},
	StageKeys:     []string{"blockName", "stageName"},
	HomeScoreKeys: []string{"homeScore", "team1Score", "score1"},
	AwayScoreKeys: []string{"awayScore", "team2Score", "score2"},
	NameKeys:      naverTeamNameKeys,
	LogoKeys:      naverTeamLogoKeys,
}

// OpggContext covers both GraphQL schemas (LoL paged matches and Valorant
// series matches), which share one match shape.
var OpggContext = ProviderContext{
	Provider:      "opgg",
	IDKeys:        []string{"id"},
	TimeKeys:      []string{"scheduledAt", "beginAt"},
	StatusKeys:    []string{"status"},
	HomeScoreKeys: []string{"homeScore"},
	AwayScoreKeys: []string{"awayScore"},
	NameKeys:      opggTeamNameKeys,
	LogoKeys:      opggTeamLogoKeys,
}

// NormalizeMatch turns one raw match object into a canonical record.
// Every field is extracted independently, so a hole in one field never
// suppresses the others. ok is false only when the match identifier or
// start time cannot be derived; such records are dropped by the caller
// rather than emitted half-built.
func NormalizeMatch(raw map[string]any, pc ProviderContext) (domain.Match, bool) {
	idVal, ok := firstValue(raw, pc.IDKeys...)
	if !ok {
		return domain.Match{}, false
	}
	id := formatID(idVal)
	if id == "" {
		return domain.Match{}, false
	}

	rawTime, _ := firstValue(raw, pc.TimeKeys...)
	start, ok := NormalizeTime(rawTime)
	if !ok {
		return domain.Match{}, false
	}

	m := domain.Match{
		MatchID:    id,
		StartTime:  start,
		Status:     NormalizeStatus(firstString(raw, pc.StatusKeys...)),
		LeagueName: firstString(raw, pc.LeagueKeys...),
		StageName:  firstString(raw, pc.StageKeys...),
		HomeScore:  scoreValue(raw, pc.HomeScoreKeys),
		AwayScore:  scoreValue(raw, pc.AwayScoreKeys),
	}

	extractTeams(raw, pc, &m)
	return m, true
}

// NormalizeAll normalizes a batch, dropping records that lack the id or
// start-time minimum and logging how many were dropped.
func NormalizeAll(raws []map[string]any, pc ProviderContext, logger zerolog.Logger) []domain.Match {
	out := make([]domain.Match, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		m, ok := NormalizeMatch(raw, pc)
		if !ok {
			dropped++
			continue
		}
		out = append(out, m)
	}
	if dropped > 0 {
		logger.Warn().
			Str("provider", pc.Provider).
			Int("dropped", dropped).
			Msg("dropped matches without id or start time")
	}
	return out
}

// extractTeams dispatches on the team-encoding shape: a teams array uses
// positions 0/1 for home/away, nested homeTeam/awayTeam objects use the
// named keys, and the flat shape carries pre-extracted name fields.
func extractTeams(raw map[string]any, pc ProviderContext, m *domain.Match) {
	if teams, ok := raw["teams"].([]any); ok {
		if len(teams) >= 1 {
			m.HomeTeam, _ = TeamName(teams[0], pc.NameKeys)
			m.HomeLogo, _ = TeamLogo(teams[0], pc.LogoKeys)
		}
		if len(teams) >= 2 {
			m.AwayTeam, _ = TeamName(teams[1], pc.NameKeys)
			m.AwayLogo, _ = TeamLogo(teams[1], pc.LogoKeys)
		}
		return
	}

	_, hasHome := raw["homeTeam"]
	_, hasAway := raw["awayTeam"]
	if hasHome || hasAway {
		m.HomeTeam, _ = TeamName(raw["homeTeam"], pc.NameKeys)
		m.HomeLogo, _ = TeamLogo(raw["homeTeam"], pc.LogoKeys)
		m.AwayTeam, _ = TeamName(raw["awayTeam"], pc.NameKeys)
		m.AwayLogo, _ = TeamLogo(raw["awayTeam"], pc.LogoKeys)
		return
	}

	m.HomeTeam = firstString(raw, "team1Name", "homeTeamName")
	m.AwayTeam = firstString(raw, "team2Name", "awayTeamName")
}

// scoreValue tries the candidate score keys and keeps the first value that
// is present and non-null. A present 0 is a real score and stops the chain;
// nil means the match has no score at all.
func scoreValue(raw map[string]any, keys []string) *int {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			s := int(n)
			return &s
		case int:
			s := n
			return &s
		case string:
			if s, err := strconv.Atoi(n); err == nil {
				return &s
			}
		}
	}
	return nil
}

// SortByStartTime orders matches ascending by start time. The sort is
// stable, so equal timestamps keep the provider-given relative order.
func SortByStartTime(matches []domain.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].StartTime.Before(matches[j].StartTime)
	})
}

// formatID renders the provider identifier without inventing one: strings
// pass through, numeric ids print without a decimal part.
func formatID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return ""
	}
}
