package handler

import (
	"context"
	"net/http"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

// AuditQuerier Описываем, что нам нужно от сервиса
type AuditQuerier interface {
	Query(ctx context.Context, username, action, fromDate, toDate string) ([]domain.AuditEvent, error)
}

type AuditHandler struct {
	service AuditQuerier
}

func NewAuditHandler(s AuditQuerier) *AuditHandler {
	return &AuditHandler{service: s}
}

// List возвращает страницу журнала аудита с фильтрацией
// GET /v1/audit?username=...&action=...&from=...&to=...
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rows, err := h.service.Query(r.Context(), q.Get("username"), q.Get("action"), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
