package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	apierrors "github.com/wanderlist-app/auth-service/internal/errors"
	"github.com/wanderlist-app/auth-service/internal/models"
	"github.com/wanderlist-app/auth-service/internal/service"
)

// bearerToken извлекает токен из заголовка Authorization: Bearer <token>.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}

	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", false
	}

	return token, true
}

// guard — общая логика обоих guard'ов: достать bearer-токен, проверить его
// указанной функцией и положить личность запроса в контекст. Варианты
// различаются только секретом (внутри verify) и тем, прокидывается ли
// «сырой» токен дальше (refresh).
func guard(verify func(string) (*models.AuthInfo, error)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				apierrors.WriteError(w, r, fmt.Errorf("missing bearer token: %w", service.ErrInvalidToken))
				return
			}

			info, err := verify(raw)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxAuthInfo, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessGuard пропускает только запросы с валидным access-токеном.
func AccessGuard(svc *service.Service) Middleware {
	return guard(svc.VerifyAccessToken)
}

// RefreshGuard пропускает только запросы с валидным refresh-токеном.
// Access-токен здесь не пройдёт: другой секрет и другой kind-клейм.
func RefreshGuard(svc *service.Service) Middleware {
	return guard(svc.VerifyRefreshToken)
}
