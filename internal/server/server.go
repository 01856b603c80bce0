package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"esports-schedule/internal/domain"
	"esports-schedule/internal/schedule"
	"esports-schedule/internal/service"

	"github.com/rs/zerolog"
)

// Server exposes the schedule and news queries as a small JSON API.
// Formatting decisions (sentinel empty strings, null scores) mirror the
// canonical record exactly so clients can rely on them.
type Server struct {
	scheduleSvc *service.ScheduleService
	newsSvc     *service.NewsService
	playerSvc   *service.PlayerService
	logger      zerolog.Logger
}

func New(scheduleSvc *service.ScheduleService, newsSvc *service.NewsService, playerSvc *service.PlayerService, logger zerolog.Logger) *Server {
	return &Server{scheduleSvc: scheduleSvc, newsSvc: newsSvc, playerSvc: playerSvc, logger: logger}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/schedule/valorant", s.handleValorantSchedule)
	mux.HandleFunc("GET /v1/schedule/lol", s.handleLoLSchedule)
	mux.HandleFunc("GET /v1/schedule/lol/upcoming", s.handleUpcomingLoL)
	mux.HandleFunc("GET /v1/news", s.handleNews)
	mux.HandleFunc("GET /v1/players", s.handlePlayerSearch)
	return mux
}

type matchJSON struct {
	MatchID    string `json:"matchId"`
	StartTime  string `json:"startTime"`
	Status     string `json:"status"`
	HomeTeam   string `json:"homeTeamName"`
	AwayTeam   string `json:"awayTeamName"`
	HomeLogo   string `json:"homeTeamLogoUrl"`
	AwayLogo   string `json:"awayTeamLogoUrl"`
	HomeScore  *int   `json:"homeScore"`
	AwayScore  *int   `json:"awayScore"`
	LeagueName string `json:"leagueName,omitempty"`
	StageName  string `json:"stageName,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValorantSchedule(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	if league == "" {
		writeError(w, http.StatusBadRequest, "league query parameter is required")
		return
	}

	matches, err := s.scheduleSvc.ValorantSchedule(r.Context(), league)
	s.writeMatches(w, matches, err)
}

func (s *Server) handleLoLSchedule(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	if league == "" {
		writeError(w, http.StatusBadRequest, "league query parameter is required")
		return
	}

	now := time.Now()
	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := queryInt(r, "month", int(now.Month()))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	matches, err := s.scheduleSvc.LoLMonthlySchedule(r.Context(), league, year, month)
	s.writeMatches(w, matches, err)
}

func (s *Server) handleUpcomingLoL(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	if league == "" {
		writeError(w, http.StatusBadRequest, "league query parameter is required")
		return
	}

	matches, err := s.scheduleSvc.UpcomingLoLMatches(r.Context(), league)
	s.writeMatches(w, matches, err)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	game := r.URL.Query().Get("game")
	if game == "" {
		game = "lol"
	}

	articles, err := s.newsSvc.FreshArticles(r.Context(), game)
	if err != nil {
		s.logger.Error().Err(err).Str("game", game).Msg("news request failed")
		writeError(w, http.StatusBadGateway, "news temporarily unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

type playerJSON struct {
	Nickname   string `json:"nickname"`
	RealName   string `json:"realName,omitempty"`
	ProfileURL string `json:"profileUrl"`
}

func (s *Server) handlePlayerSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	players, err := s.playerSvc.SearchPlayers(r.Context(), query)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("player search failed")
		writeError(w, http.StatusBadGateway, "player search temporarily unavailable")
		return
	}

	out := make([]playerJSON, len(players))
	for i, p := range players {
		out[i] = playerJSON{
			Nickname:   p.Nickname,
			RealName:   p.RealName,
			ProfileURL: p.ProfileURL,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": out})
}

// writeMatches maps the service error taxonomy onto status codes: unknown
// league (and the table fault it masks) is 404, upstream trouble is 502,
// and an empty schedule is a successful empty list.
func (s *Server) writeMatches(w http.ResponseWriter, matches []domain.Match, err error) {
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownLeague) || errors.Is(err, schedule.ErrNoSeriesIDs) {
			writeError(w, http.StatusNotFound, "league not found")
			return
		}
		writeError(w, http.StatusBadGateway, "schedule temporarily unavailable")
		return
	}

	out := make([]matchJSON, len(matches))
	for i, m := range matches {
		out[i] = matchJSON{
			MatchID:    m.MatchID,
			StartTime:  m.StartTime.Format(time.RFC3339),
			Status:     string(m.Status),
			HomeTeam:   m.HomeTeam,
			AwayTeam:   m.AwayTeam,
			HomeLogo:   m.HomeLogo,
			AwayLogo:   m.AwayLogo,
			HomeScore:  m.HomeScore,
			AwayScore:  m.AwayScore,
			LeagueName: m.LeagueName,
			StageName:  m.StageName,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": out})
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
