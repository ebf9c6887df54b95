// service содержит бизнес-логику auth-сервиса Wanderlist:
// регистрацию/аутентификацию пользователей, выпуск/проверку токенов,
// ротацию refresh-токенов и работу с хранилищем через интерфейсы
// из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//     Единственная точка координации — строка пользователя в БД.
//   - Ошибки возвращаются и далее маппятся HTTP-слоем на статусы
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"
	"time"

	"github.com/wanderlist-app/auth-service/internal/cache"
	"github.com/wanderlist-app/auth-service/internal/config"
	"github.com/wanderlist-app/auth-service/internal/storage"
)

var (
	// ErrInvalidUsername — username не проходит политику валидации.
	// Транспорт: 400 Bad Request.
	ErrInvalidUsername = errors.New("invalid username format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: 400 Bad Request.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой.
	// Транспорт: 400 Bad Request.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrUsernameTaken — username уже занят другим пользователем.
	// Транспорт: 400 Bad Request.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUserNotFound — пользователь не найден. Наружу через signin не
	// отдаётся: схлопывается в ErrInvalidCredentials, чтобы не допускать
	// перебор username. Остаётся отдельной ошибкой для логов и users-ручек.
	// Транспорт (users): 404 Not Found.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials — пара username/пароль неверна или пользователь
	// не найден. Транспорт: 400 Bad Request (единое сообщение для обоих случаев).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи
	// или не того типа. Транспорт: 401 Unauthorized.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк.
	// Транспорт: 401 Unauthorized.
	ErrTokenExpired = errors.New("token expired")

	// ErrNoActiveSession — у пользователя нет активной сессии
	// (refresh_token_hash = NULL, например после signout).
	// Транспорт: 403 Forbidden.
	ErrNoActiveSession = errors.New("no active session")

	// ErrTokenMismatch — предъявленный refresh-токен не совпадает с текущим
	// хэшем сессии: токен уже ротирован (возможный replay украденного токена).
	// Транспорт: 403 Forbidden.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// Service описывает бизнес-логику auth-сервиса.
type Service struct {
	storage    storage.Storage
	cfg        config.AuthConfig
	pcache     cache.ProfileCache // может быть nil, если кэш не сконфигурирован
	profileTTL time.Duration
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// SetProfileCache устанавливает кэш профилей (опционально).
func (s *Service) SetProfileCache(c cache.ProfileCache, ttl time.Duration) {
	s.pcache = c
	s.profileTTL = ttl
}
