package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись пользователя Wanderlist.
//
// PasswordHash — argon2id-хэш пароля в PHC-формате; у существующего
// пользователя не бывает пустым.
//
// RefreshTokenHash — argon2id-хэш текущего refresh-токена.
// nil означает отсутствие активной сессии (после signout). Поле
// перезаписывается при каждом выпуске пары токенов, поэтому на аккаунт
// в любой момент существует не более одного действующего refresh-токена.
type User struct {
	ID               uuid.UUID
	Username         string
	PasswordHash     string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
