package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/wanderlist-app/auth-service/internal/models"
	"github.com/wanderlist-app/auth-service/internal/pkg/log"
	"github.com/wanderlist-app/auth-service/internal/pkg/redact"
	"github.com/wanderlist-app/auth-service/internal/storage"
)

// SignUp регистрирует нового пользователя и открывает его первую сессию.
//
// Переход состояния аккаунта: NoAccount -> ActiveSession.
func (s *Service) SignUp(ctx context.Context, username, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.SignUp"

	normUsername, err := validateUsername(username)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(password); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.storage.UserByUsername(ctx, normUsername)
	if err == nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	passwordHash, err := hashSecret(password)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     normUsername,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		// Гонка двух одновременных signup на один username: уникальный
		// индекс в БД — финальный арбитр.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user.ID, nil
}

// SignIn выполняет вход по username+пароль.
//
// «Пользователь не найден» и «неверный пароль» наружу неразличимы
// (ErrInvalidCredentials) — защита от перебора username. Для диагностики
// случаи разводятся в логах.
//
// Успешный вход перезаписывает хэш refresh-токена: любая ранее активная
// сессия этого аккаунта немедленно инвалидируется.
func (s *Service) SignIn(ctx context.Context, username, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.SignIn"

	lg := log.From(ctx)

	normUsername := strings.TrimSpace(username)
	if normUsername == "" || len(password) == 0 {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByUsername(ctx, normUsername)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("signin_unknown_username",
				slog.String("op", op),
				slog.String("username", redact.Username(normUsername)),
			)
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if !verifySecret(user.PasswordHash, password) {
		lg.Warn("signin_wrong_password",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
		)
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user.ID, nil
}

// SignOut завершает сессию пользователя: refresh_token_hash выставляется
// в явный NULL.
//
// Операция идемпотентна и безусловно успешна: повторный signout и signout
// несуществующего пользователя — no-op, не ошибка.
func (s *Service) SignOut(ctx context.Context, userID uuid.UUID) error {
	const op = "service.auth.SignOut"

	if err := s.storage.UpdateRefreshTokenHash(ctx, userID, nil); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Refresh обновляет пару токенов по предъявленному refresh-токену.
// Подпись и срок действия токена уже проверены guard'ом на границе;
// здесь токен сверяется с хэшем текущей сессии.
//
// Каждый успешный Refresh ротирует сессию: только что использованный
// токен становится непригодным. Повторное предъявление старого токена —
// признак replay (в том числе украденного токена) и завершается
// ErrTokenMismatch.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID, presentedRefresh string) (*models.TokenPair, error) {
	const op = "service.auth.Refresh"

	lg := log.From(ctx)

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSession)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if user.RefreshTokenHash == nil {
		lg.Warn("refresh_no_session",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSession)
	}

	if !verifySecret(*user.RefreshTokenHash, presentedRefresh) {
		lg.Warn("refresh_token_mismatch",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenMismatch)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// validateUsername проверяет формат username и обрезает пробелы снаружи.
// Политика: 3–32 руны; буквы, цифры, '.', '_' и '-'.
func validateUsername(raw string) (string, error) {
	const op = "service.auth.validateUsername"

	username := strings.TrimSpace(raw)
	if username == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	runes := []rune(username)
	if len(runes) < 3 || len(runes) > 32 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	for _, r := range runes {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case r == '.' || r == '_' || r == '-':
		default:
			return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
		}
	}

	return username, nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8, хотя бы одна строчная, заглавная,
// цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}
