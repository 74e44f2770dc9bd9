package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"league-tracker/internal/api"
	"league-tracker/internal/repository"
	"league-tracker/internal/service"

	"github.com/rs/zerolog"
)

// StatsServer is the JSON surface over the ingestion engine: three reads,
// one trigger, and the account-bind glue.
type StatsServer struct {
	ingestSvc  *service.IngestService
	statsSvc   *service.StatsService
	accountSvc *service.AccountService
	logger     zerolog.Logger
}

func NewStatsServer(ingestSvc *service.IngestService, statsSvc *service.StatsService, accountSvc *service.AccountService, logger zerolog.Logger) *StatsServer {
	return &StatsServer{ingestSvc: ingestSvc, statsSvc: statsSvc, accountSvc: accountSvc, logger: logger}
}

func (s *StatsServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users/{id}/modes", s.handleGetModes)
	mux.HandleFunc("GET /api/users/{id}/details", s.handleGetDetails)
	mux.HandleFunc("GET /api/users/{id}/matches", s.handleGetMatches)
	mux.HandleFunc("POST /api/users/{id}/analyze", s.handleAnalyze)
	mux.HandleFunc("PUT /api/users/{id}/account", s.handleBindAccount)
}

type envelope struct {
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	Data          any    `json:"data,omitempty"`
	NeedsUpdate   bool   `json:"needsUpdate,omitempty"`
	NeedsAnalysis bool   `json:"needsAnalysis,omitempty"`
}

func (s *StatsServer) handleGetModes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	summary, stale, err := s.statsSvc.CategorySummaryFor(r.Context(), userID)
	if errors.Is(err, repository.ErrNotAnalyzed) {
		writeJSON(w, http.StatusOK, envelope{
			Status:        "info",
			Message:       "no analysis data yet, trigger an analysis first",
			NeedsAnalysis: true,
		})
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Status: "success",
		Data: map[string]any{
			"sr_5v5_percentage":    summary.SR5v5Pct,
			"aram_percentage":      summary.ARAMPct,
			"fun_modes_percentage": summary.FunModesPct,
			"bot_games_percentage": summary.BotGamesPct,
			"custom_percentage":    summary.CustomPct,
			"unknown_percentage":   summary.UnknownPct,
			"total_matches":        summary.TotalMatches,
			"last_updated":         summary.LastUpdated.Format(time.RFC3339),
		},
		NeedsUpdate: stale,
	})
}

func (s *StatsServer) handleGetDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	summary, stale, err := s.statsSvc.DetailedSummaryFor(r.Context(), userID)
	if errors.Is(err, repository.ErrNotAnalyzed) {
		// Simplified placeholder so clients can render an empty card.
		writeJSON(w, http.StatusOK, envelope{
			Status:        "info",
			Message:       "no analysis data yet",
			NeedsAnalysis: true,
			Data: map[string]any{
				"favorite_champions": []string{},
				"total_multikills":   0,
				"matches_analyzed":   0,
			},
		})
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Status: "success",
		Data: map[string]any{
			"champions":          summary.Champions,
			"positions":          summary.Positions,
			"allies":             summary.Allies,
			"enemies":            summary.Enemies,
			"favorite_champions": summary.Champions.TopN(3),
			"multikills": map[string]any{
				"doubles": summary.DoubleKills,
				"triples": summary.TripleKills,
				"quadras": summary.QuadraKills,
				"pentas":  summary.PentaKills,
				"total":   summary.TotalMultikills,
				"average": summary.AvgMultikills,
			},
			"totals": map[string]any{
				"gold":         summary.TotalGold,
				"kills":        summary.TotalKills,
				"deaths":       summary.TotalDeaths,
				"assists":      summary.TotalAssists,
				"damage_dealt": summary.TotalDamageDealt,
				"damage_taken": summary.TotalDamageTaken,
				"vision_score": summary.TotalVisionScore,
				"items":        summary.TotalItems,
				"time_played":  summary.TotalTimePlayed,
			},
			"averages": map[string]any{
				"gold":         summary.AvgGold,
				"kills":        summary.AvgKills,
				"deaths":       summary.AvgDeaths,
				"assists":      summary.AvgAssists,
				"damage_dealt": summary.AvgDamageDealt,
				"damage_taken": summary.AvgDamageTaken,
				"vision_score": summary.AvgVisionScore,
				"items":        summary.AvgItems,
				"time_played":  summary.AvgTimePlayed,
				"kda":          summary.AvgKDA,
			},
			"matches_analyzed": summary.MatchesAnalyzed,
			"last_updated":     summary.LastUpdated.Format(time.RFC3339),
		},
		NeedsUpdate: stale,
	})
}

func (s *StatsServer) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Status: "error", Message: "invalid 'limit' parameter"})
			return
		}
		limit = n
	}

	records, err := s.statsSvc.RecentMatches(r.Context(), userID, limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	matches := make([]map[string]any, 0, len(records))
	for _, m := range records {
		matches = append(matches, map[string]any{
			"match_id":  m.MatchID,
			"queue_id":  m.QueueID,
			"game_mode": m.GameMode,
			"category":  m.Category,
			"date":      m.GameDate.Format("2006-01-02 15:04:05"),
		})
	}

	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: matches})
}

func (s *StatsServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	result, err := s.ingestSvc.Run(r.Context(), userID)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, api.ErrNoCredential) {
			status = http.StatusServiceUnavailable
		}
		if errors.Is(err, repository.ErrAccountNotFound) {
			status = http.StatusConflict
		}
		writeJSON(w, status, envelope{Status: "error", Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, envelope{Status: result.Status, Message: result.Message, Data: result})
}

type bindAccountRequest struct {
	GameName string `json:"game_name"`
	TagLine  string `json:"tag_line"`
	Region   string `json:"region"`
}

func (s *StatsServer) handleBindAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req bindAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Status: "error", Message: "invalid request body"})
		return
	}
	if req.GameName == "" || req.TagLine == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Status: "error", Message: "game_name and tag_line are required"})
		return
	}

	account, err := s.accountSvc.Bind(r.Context(), userID, req.GameName, req.TagLine, req.Region)
	if err != nil {
		if ue, upstream := api.IsUpstreamError(err); upstream && ue.Status == http.StatusNotFound {
			writeJSON(w, http.StatusNotFound, envelope{Status: "error", Message: "riot account not found"})
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Status: "success",
		Data: map[string]any{
			"puuid":     account.Puuid,
			"game_name": account.GameName,
			"tag_line":  account.TagLine,
			"region":    account.Region,
		},
	})
}

func (s *StatsServer) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, envelope{Status: "error", Message: "invalid user id"})
		return 0, false
	}
	return id, true
}

func (s *StatsServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, envelope{Status: "error", Message: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
