package auth

import (
	"context"
	"net/http"

	"github.com/xela07ax/fleetsim-console/internal/domain"
	"go.uber.org/zap"
)

// TokenValidator — интерфейс проверки токенов для middleware
type TokenValidator interface {
	VerifyToken(tokenStr string) (*domain.CustomClaims, error)
}

// Тип для ключа в контексте (избегаем коллизий)
type ctxKey string

const claimsKey ctxKey = "auth_claims"

// NewMiddleware проверяет Authorization-заголовок и прокидывает
// личность действующего пользователя (username, role) в контекст запроса.
func NewMiddleware(v TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := v.VerifyToken(authHeader)
			if err != nil {
				logger.Warn("auth failure", zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext достает claims, положенные middleware.
// ok == false означает, что запрос пришел мимо защищенного периметра.
func ClaimsFromContext(ctx context.Context) (*domain.CustomClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*domain.CustomClaims)
	return claims, ok
}

// WithClaims кладет claims в контекст напрямую (для тестов хендлеров).
func WithClaims(ctx context.Context, claims *domain.CustomClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
