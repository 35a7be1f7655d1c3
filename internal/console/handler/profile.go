package handler

import (
	"context"
	"net/http"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

type ProfileLister interface {
	ListProfiles(ctx context.Context, f domain.ProfileFilter) ([]domain.Profile, error)
}

type ProfileHandler struct {
	service ProfileLister
}

func NewProfileHandler(s ProfileLister) *ProfileHandler {
	return &ProfileHandler{service: s}
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProfileFilter{
		Search:        q.Get("search"),
		SortByCreated: q.Get("sort") == "created",
	}

	profiles, err := h.service.ListProfiles(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}
