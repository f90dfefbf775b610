package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/konekt-network/konekt/internal/app/gamification"
	"github.com/konekt-network/konekt/internal/domain"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	notificationsLimit      = 20
)

type levelResponse struct {
	domain.Level
	ProgressPct float64 `json:"progress_pct"`
}

type activityRequest struct {
	Metric domain.Metric `json:"metric"`
	Delta  int64         `json:"delta"`
}

type loginRequest struct {
	Date string `json:"date,omitempty"` // "2006-01-02"; empty means now
}

// GET /api/level?xp=N
func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	xp, err := strconv.ParseInt(r.URL.Query().Get("xp"), 10, 64)
	if err != nil || xp < 0 {
		writeError(w, http.StatusBadRequest, "xp must be a non-negative integer")
		return
	}
	level := gamification.CalculateLevel(xp)
	writeJSON(w, http.StatusOK, levelResponse{Level: level, ProgressPct: gamification.ProgressPct(level)})
}

// GET /api/users/{userID}/gamification
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.gamification.Snapshot(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// POST /api/users/{userID}/activity
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	stats, err := s.gamification.RecordActivity(r.Context(), chi.URLParam(r, "userID"), req.Metric, req.Delta)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// POST /api/users/{userID}/logins
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var at time.Time
	if req.Date != "" {
		day, err := time.ParseInLocation(domain.DayFormat, req.Date, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		at = day
	}

	userID := chi.URLParam(r, "userID")
	if err := s.gamification.RecordLogin(r.Context(), userID, at); err != nil {
		writeDomainError(w, r, err)
		return
	}
	snap, err := s.gamification.Snapshot(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Streak)
}

// PUT /api/users/{userID}/flags
func (s *Server) handleFlags(w http.ResponseWriter, r *http.Request) {
	var flags domain.Flags
	if err := decodeJSON(r, &flags); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.gamification.SetFlags(r.Context(), chi.URLParam(r, "userID"), flags); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, flags)
}

// GET /api/users/{userID}/challenges
func (s *Server) handleChallenges(w http.ResponseWriter, r *http.Request) {
	set, err := s.gamification.DailyChallenges(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// GET /api/leaderboard?limit=N
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	entries, err := s.gamification.Leaderboard(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// GET /api/users/{userID}/notifications
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifs := s.gamification.Notifications()
	if notifs == nil {
		writeJSON(w, http.StatusOK, map[string]any{"notifications": []domain.Notification{}})
		return
	}
	pending, err := notifs.Pending(r.Context(), chi.URLParam(r, "userID"), notificationsLimit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if pending == nil {
		pending = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": pending})
}

// POST /api/users/{userID}/notifications/{id}/shown
func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	notifs := s.gamification.Notifications()
	if notifs == nil {
		writeError(w, http.StatusNotFound, "notifications are disabled")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := notifs.MarkShown(r.Context(), chi.URLParam(r, "userID"), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
