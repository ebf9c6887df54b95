package http

import (
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/wanderlist-app/auth-service/internal/errors"
	"github.com/wanderlist-app/auth-service/internal/models"
	"github.com/wanderlist-app/auth-service/internal/service"
	"github.com/wanderlist-app/auth-service/internal/transport/http/middleware"
)

type signUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID          string `json:"user_id"`
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessExpiresAt int64  `json:"access_expires_at"` // Unix UTC
}

func newAuthResponse(uid uuid.UUID, pair *models.TokenPair) authResponse {
	return authResponse{
		UserID:          uid.String(),
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt.Unix(),
	}
}

// SignUp регистрирует пользователя и возвращает пару токенов.
// POST /auth/signup. Занятый username -> 400.
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var in signUpRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	pair, uid, err := h.svc.SignUp(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(uid, pair))
}

// SignIn аутентифицирует пользователя и возвращает новую пару токенов.
// POST /auth/signin. Неизвестный username и неверный пароль неразличимы -> 400.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var in signInRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	pair, uid, err := h.svc.SignIn(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(uid, pair))
}

// SignOut завершает сессию пользователя.
// GET /auth/signout, за AccessGuard. Всегда 204 (идемпотентно).
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	info, ok := middleware.AuthInfoFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	if err := h.svc.SignOut(r.Context(), info.UserID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Refresh выпускает новую пару токенов по валидному refresh-токену.
// GET /auth/refresh, за RefreshGuard. Нет сессии или несовпадение -> 403.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	info, ok := middleware.AuthInfoFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), info.UserID, info.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(info.UserID, pair))
}
