package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/wanderlist-app/auth-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (username).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByUsername находит пользователя по username (без учёта регистра).
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UpdateProfile обновляет username и/или password_hash.
	// nil-аргумент означает «поле не меняется» и в UPDATE не участвует.
	UpdateProfile(ctx context.Context, id uuid.UUID, username, passwordHash *string) (*models.User, error)
}

// SessionStorage выполняет операции над сессией (refresh_token_hash).
type SessionStorage interface {
	// UpdateRefreshTokenHash записывает хэш текущего refresh-токена.
	//
	// ВАЖНО: поле всегда участвует в UPDATE; nil записывается как явный
	// SQL NULL (завершение сессии), а не как «оставить без изменений».
	// Разлогиненный refresh-токен обязан стать навсегда непригодным.
	UpdateRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	SessionStorage
	Close()
}
