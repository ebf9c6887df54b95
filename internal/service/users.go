package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wanderlist-app/auth-service/internal/cache"
	"github.com/wanderlist-app/auth-service/internal/models"
	"github.com/wanderlist-app/auth-service/internal/pkg/log"
	"github.com/wanderlist-app/auth-service/internal/storage"
)

// ProfileByID возвращает публичный профиль пользователя.
//
// Кэш (если сконфигурирован) работает read-through и хранит только
// отображаемые поля — хэши в Redis не попадают. Ошибки кэша не фатальны:
// источник истины всегда БД.
func (s *Service) ProfileByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "service.users.ProfileByID"

	lg := log.From(ctx)

	if s.pcache != nil {
		entry, ok, err := s.pcache.Get(ctx, id)
		if err != nil {
			lg.Warn("profile_cache_get_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
		if ok {
			return &models.User{
				ID:        id,
				Username:  entry.Username,
				CreatedAt: entry.CreatedAt,
				UpdatedAt: entry.UpdatedAt,
			}, nil
		}
	}

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.pcache != nil {
		entry := &cache.ProfileEntry{
			Username:  user.Username,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		}
		if err := s.pcache.Set(ctx, id, entry, s.profileTTL); err != nil {
			lg.Warn("profile_cache_set_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return user, nil
}

// UpdateProfile обновляет username и/или пароль пользователя.
// nil-аргументы означают «не менять». Новый пароль хэшируется той же
// политикой, что и при регистрации.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, username, password *string) (*models.User, error) {
	const op = "service.users.UpdateProfile"

	lg := log.From(ctx)

	var normUsername *string
	if username != nil {
		norm, err := validateUsername(*username)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		normUsername = &norm
	}

	var passwordHash *string
	if password != nil {
		if err := validatePassword(*password); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		hash, err := hashSecret(*password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		passwordHash = &hash
	}

	user, err := s.storage.UpdateProfile(ctx, id, normUsername, passwordHash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.pcache != nil {
		if err := s.pcache.Invalidate(ctx, id); err != nil {
			lg.Warn("profile_cache_invalidate_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return user, nil
}
