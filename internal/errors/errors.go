// errors стандартизирует ответы об ошибках HTTP-слоя auth-сервиса.
// На вход принимает ошибку доменного слоя (service), на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки внутренних деталей.
//
// Маппинг (политика, не транзиент — ретраев не предполагается):
//   - валидация/занятый username/неверные учётные данные -> 400;
//   - невалидный или просроченный токен (guard)           -> 401;
//   - нет активной сессии / несовпадение refresh-токена   -> 403;
//   - пользователь не найден (users-ручки)                -> 404;
//   - отмена клиентом / дедлайн                           -> 499 / 504;
//   - прочее -> 500 c единым безопасным сообщением.
//
// «Пользователь не найден» и «неверный пароль» на signin схлопнуты
// в invalid_credentials ещё в сервисном слое.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wanderlist-app/auth-service/internal/service"
)

// Нестандартный код, часто используемый для «клиент закрыл соединение».
const StatusClientClosedRequest = 499

// Ошибки транспортного уровня, не имеющие доменного аналога.
var (
	// ErrInvalidArgument — битое тело запроса/параметр пути.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPermissionDenied — доступ к чужому ресурсу.
	ErrPermissionDenied = errors.New("permission denied")
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку доменного/транспортного слоя в HTTP-статус
// и унифицированный ответ для фронта.
//
// err == nil — программная ошибка вызова: возвращаем 500/internal,
// чтобы не послать «200 OK» с телом ошибки и не замаскировать баг.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyPassword),
		errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusBadRequest, "username_taken", "username already taken"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, "invalid_credentials", "invalid credentials"
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case errors.Is(err, service.ErrNoActiveSession):
		return http.StatusForbidden, "no_active_session", "no active session"
	case errors.Is(err, service.ErrTokenMismatch):
		return http.StatusForbidden, "token_mismatch", "refresh token mismatch"
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
