package models

import "github.com/google/uuid"

// AuthInfo — аутентифицированная личность запроса: результат успешной
// проверки bearer-токена guard'ом на границе HTTP.
//
// Передаётся явным параметром в сервисный слой, а не «фоновым» состоянием:
// RefreshToken заполняется только refresh-guard'ом — access-токен никогда
// не попадает в refresh-поток.
type AuthInfo struct {
	UserID   uuid.UUID
	Username string
	// RefreshToken — «сырой» refresh-токен из заголовка Authorization;
	// пустая строка для access-guard'а.
	RefreshToken string
}
