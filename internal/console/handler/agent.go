package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/fleetsim-console/internal/domain"
	"github.com/xela07ax/fleetsim-console/internal/infra/auth"
)

// AgentProvider Описываем, что нам нужно от сервиса
type AgentProvider interface {
	ListAgents(ctx context.Context, f domain.AgentFilter) ([]domain.Agent, error)
	GetAgent(ctx context.Context, id int64) (*domain.Agent, error)
	AgentTelemetry(ctx context.Context, agentID int64, limit int) ([]domain.Telemetry, error)
	ApplyProfile(ctx context.Context, username string, agentID, profileID int64) error
	StopProfile(ctx context.Context, username string, agentID int64) error
}

type AgentHandler struct {
	service AgentProvider
}

func NewAgentHandler(s AgentProvider) *AgentHandler {
	return &AgentHandler{service: s}
}

func agentID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// actingUser достает личность из claims, положенных auth middleware.
func actingUser(r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return "", false
	}
	return claims.Username, true
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AgentFilter{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		SortDesc: q.Get("sort") != "asc", // дефолт — свежие сверху
	}

	agents, err := h.service.ListAgents(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := agentID(r)
	if !ok {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}

	agent, err := h.service.GetAgent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (h *AgentHandler) Telemetry(w http.ResponseWriter, r *http.Request) {
	id, ok := agentID(r)
	if !ok {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}

	rows, err := h.service.AgentTelemetry(r.Context(), id, 10)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type applyRequest struct {
	ProfileID int64 `json:"profile_id"`
}

func (h *AgentHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := agentID(r)
	if !ok {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}
	username, ok := actingUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProfileID == 0 {
		http.Error(w, "profile_id is required", http.StatusBadRequest)
		return
	}

	if err := h.service.ApplyProfile(r.Context(), username, id, req.ProfileID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "profile applied"})
}

func (h *AgentHandler) Stop(w http.ResponseWriter, r *http.Request) {
	id, ok := agentID(r)
	if !ok {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}
	username, ok := actingUser(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.StopProfile(r.Context(), username, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "profile stopped"})
}
