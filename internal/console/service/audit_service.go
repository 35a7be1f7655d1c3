package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xela07ax/fleetsim-console/internal/domain"
)

// AuditLogProvider описывает контракт для чтения журнала аудита.
type AuditLogProvider interface {
	FindAuditEvents(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEvent, error)
}

type AuditService struct {
	repo AuditLogProvider
}

func NewAuditService(repo AuditLogProvider) *AuditService {
	return &AuditService{repo: repo}
}

// поддерживаемые форматы дат фильтра
var auditDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseAuditDate(value string) (time.Time, error) {
	for _, layout := range auditDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad date %q, expected YYYY-MM-DD or RFC3339", domain.ErrInvalidInput, value)
}

// Query возвращает страницу журнала. Кривая дата — это ошибка валидации
// запроса, а не низкоуровневый parse fault.
func (s *AuditService) Query(ctx context.Context, username, action, fromDate, toDate string) ([]domain.AuditEvent, error) {
	filter := domain.AuditFilter{
		Username: username,
		Action:   action,
		Limit:    200,
	}

	if fromDate != "" {
		ts, err := parseAuditDate(fromDate)
		if err != nil {
			return nil, err
		}
		filter.From = &ts
	}
	if toDate != "" {
		ts, err := parseAuditDate(toDate)
		if err != nil {
			return nil, err
		}
		filter.To = &ts
	}

	rows, err := s.repo.FindAuditEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("audit_service: failed to fetch events: %w", err)
	}
	if rows == nil {
		return []domain.AuditEvent{}, nil
	}
	return rows, nil
}
