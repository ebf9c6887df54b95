// middleware содержит net/http-мидлвары HTTP-слоя auth-сервиса:
// перехват паник, request-id, request-scoped логирование, метрики,
// таймаут запроса и guard'ы для access/refresh токенов.
package middleware

import (
	"context"
	"net/http"

	"github.com/wanderlist-app/auth-service/internal/models"
)

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// Chain применяет мидлвары к обработчику в порядке их перечисления.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type ctxKey int

const (
	ctxRequestID ctxKey = iota
	ctxAuthInfo
)

// RequestIDFrom возвращает request-id запроса, если он есть в контексте.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxRequestID).(string)
	return id, ok
}

// AuthInfoFrom возвращает аутентифицированную личность запроса,
// положенную guard'ом. Второе значение false означает, что запрос
// не проходил через guard.
func AuthInfoFrom(ctx context.Context) (*models.AuthInfo, bool) {
	info, ok := ctx.Value(ctxAuthInfo).(*models.AuthInfo)
	if !ok || info == nil {
		return nil, false
	}
	return info, true
}

// statusWriter оборачивает ResponseWriter, чтобы перехватить статус и размер.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	count, err := w.ResponseWriter.Write(p)
	w.count += count
	return count, err
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w}
}
