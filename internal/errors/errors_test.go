package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wanderlist-app/auth-service/internal/service"
)

// Сервисный слой всегда оборачивает ошибки через %w — маппинг обязан
// работать по errors.Is, а не по равенству.
func wrap(err error) error {
	return fmt.Errorf("service.auth.Op: %w", err)
}

func TestToHTTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid username", err: wrap(service.ErrInvalidUsername), wantStatus: http.StatusBadRequest, wantCode: "invalid_argument"},
		{name: "weak password", err: wrap(service.ErrWeakPassword), wantStatus: http.StatusBadRequest, wantCode: "invalid_argument"},
		{name: "empty password", err: wrap(service.ErrEmptyPassword), wantStatus: http.StatusBadRequest, wantCode: "invalid_argument"},
		{name: "invalid argument", err: ErrInvalidArgument, wantStatus: http.StatusBadRequest, wantCode: "invalid_argument"},
		{name: "username taken", err: wrap(service.ErrUsernameTaken), wantStatus: http.StatusBadRequest, wantCode: "username_taken"},
		{name: "invalid credentials", err: wrap(service.ErrInvalidCredentials), wantStatus: http.StatusBadRequest, wantCode: "invalid_credentials"},
		{name: "invalid token", err: wrap(service.ErrInvalidToken), wantStatus: http.StatusUnauthorized, wantCode: "unauthenticated"},
		{name: "expired token", err: wrap(service.ErrTokenExpired), wantStatus: http.StatusUnauthorized, wantCode: "unauthenticated"},
		{name: "no active session", err: wrap(service.ErrNoActiveSession), wantStatus: http.StatusForbidden, wantCode: "no_active_session"},
		{name: "token mismatch", err: wrap(service.ErrTokenMismatch), wantStatus: http.StatusForbidden, wantCode: "token_mismatch"},
		{name: "permission denied", err: ErrPermissionDenied, wantStatus: http.StatusForbidden, wantCode: "permission_denied"},
		{name: "user not found", err: wrap(service.ErrUserNotFound), wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "canceled", err: wrap(context.Canceled), wantStatus: StatusClientClosedRequest, wantCode: "canceled"},
		{name: "deadline", err: wrap(context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout, wantCode: "deadline_exceeded"},
		{name: "unknown", err: stderrors.New("pgx: broken pipe"), wantStatus: http.StatusInternalServerError, wantCode: "internal"},
		{name: "nil", err: nil, wantStatus: http.StatusInternalServerError, wantCode: "internal"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

// Внутренние детали ошибок (SQL, стеки, op-цепочки) не утекают в message.
func TestToHTTP_NoInternalLeak(t *testing.T) {
	t.Parallel()

	_, resp := ToHTTP(stderrors.New(`ERROR: duplicate key value violates unique constraint "users_username_key"`))
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/auth/refresh", nil)
	req.Header.Set("X-Request-Id", "req-42")

	rec := httptest.NewRecorder()
	WriteError(rec, req, wrap(service.ErrNoActiveSession))

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "no_active_session", resp.Error.Code)
	require.Equal(t, "req-42", resp.Error.RequestID)
}
