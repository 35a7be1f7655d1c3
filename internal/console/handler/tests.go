package handler

import (
	"context"
	"net/http"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

type TestRunLister interface {
	RunsPage(ctx context.Context) (*domain.TestRunsPage, error)
}

type TestHandler struct {
	service TestRunLister
}

func NewTestHandler(s TestRunLister) *TestHandler {
	return &TestHandler{service: s}
}

func (h *TestHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.RunsPage(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
