package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/wanderlist-app/auth-service/internal/errors"
	"github.com/wanderlist-app/auth-service/internal/models"
	"github.com/wanderlist-app/auth-service/internal/service"
	"github.com/wanderlist-app/auth-service/internal/transport/http/middleware"
)

type updateProfileRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"` // Unix UTC
	UpdatedAt int64  `json:"updated_at"` // Unix UTC
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Unix(),
		UpdatedAt: u.UpdatedAt.Unix(),
	}
}

// selfID разбирает {id} из пути и сверяет с личностью запроса:
// профиль доступен только его владельцу.
func selfID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apierrors.ErrInvalidArgument
	}

	info, ok := middleware.AuthInfoFrom(r.Context())
	if !ok {
		return uuid.Nil, service.ErrInvalidToken
	}

	if info.UserID != id {
		return uuid.Nil, apierrors.ErrPermissionDenied
	}

	return id, nil
}

// Profile возвращает собственный профиль пользователя.
// GET /users/{id}, за AccessGuard.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := selfID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, err := h.svc.ProfileByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// UpdateProfile обновляет username и/или пароль пользователя.
// PATCH /users/{id}, за AccessGuard. Отсутствующее поле не меняется.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := selfID(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in updateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), id, in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}
