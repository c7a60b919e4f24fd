package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lingo-quest/lingo/internal/app/profile"
	"github.com/lingo-quest/lingo/internal/domain"
)

// ─── Progression API (/api/progression/*) ───────────────────────────────────

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// --- levels & pools ---

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profile.Level())
}

func (s *Server) handleHearts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profile.Hearts())
}

func (s *Server) handleStars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profile.Stars())
}

func (s *Server) handleConsumeHeart(w http.ResponseWriter, r *http.Request) {
	status, err := s.profile.ConsumeHeart(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleConsumeStar(w http.ResponseWriter, r *http.Request) {
	status, err := s.profile.ConsumeStar(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	if err := s.profile.Tick(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]profile.PoolStatus{
		"hearts": s.profile.Hearts(),
		"stars":  s.profile.Stars(),
	})
}

// --- xp ---

type addXPRequest struct {
	Amount int64           `json:"amount"`
	Source domain.XPSource `json:"source,omitempty"`
}

func (s *Server) handleAddXP(w http.ResponseWriter, r *http.Request) {
	var req addXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	switch req.Source {
	case "", domain.XPManual, domain.XPAchievement:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("source must be MANUAL or ACHIEVEMENT, got %q", req.Source))
		return
	}

	award, err := s.profile.AddXP(r.Context(), req.Amount, req.Source)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, award)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var req profile.SessionReport
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	award, err := s.profile.CompleteSession(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, award)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := s.profile.History(r.Context(), limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.XPEntry{}
	}
	total, err := s.profile.TotalAwarded(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":      entries,
		"totalAwarded": total,
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profile.Streak())
}

// --- allocation ---

func (s *Server) handleGetAllocation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profile.Allocation())
}

func (s *Server) handlePutAllocation(w http.ResponseWriter, r *http.Request) {
	var a domain.StatusAllocation
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.profile.UpdateAllocation(r.Context(), a); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.profile.Allocation())
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"templates": s.profile.Templates(),
	})
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	a, err := s.profile.ApplyTemplate(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// --- draws & state ---

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profile.NextQuestion())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.profile.Snapshot())
}
