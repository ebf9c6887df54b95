package models

import "time"

// TokenPair — пара токенов, выдаваемая при регистрации, входе и refresh.
//
// Описание:
//   - AccessToken — короткоживущий JWT для авторизации обычных запросов;
//   - RefreshToken — долгоживущий JWT, предъявляемый только для выпуска
//     новой пары; на сервере хранится исключительно его хэш;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
//
// Пара существует только в рамках одного ответа и никогда не сохраняется
// в открытом виде.
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — JWT для обновления пары.
	RefreshToken string
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
}
