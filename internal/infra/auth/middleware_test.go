package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xela07ax/fleetsim-console/internal/domain"
	"go.uber.org/zap"
)

type stubValidator struct {
	claims *domain.CustomClaims
	err    error
}

func (s *stubValidator) VerifyToken(tokenStr string) (*domain.CustomClaims, error) {
	return s.claims, s.err
}

func TestMiddlewarePutsClaimsInContext(t *testing.T) {
	claims := &domain.CustomClaims{UserID: 1, Username: "admin", Role: domain.RoleAdmin}
	mw := NewMiddleware(&stubValidator{claims: claims}, zap.NewNop())

	var got *domain.CustomClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if got == nil || got.Username != "admin" {
		t.Fatalf("claims not propagated: %+v", got)
	}
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	mw := NewMiddleware(&stubValidator{}, zap.NewNop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/agents", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	mw := NewMiddleware(&stubValidator{err: errors.New("expired")}, zap.NewNop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}
