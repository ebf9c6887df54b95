package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wanderlist-app/auth-service/internal/models"
	"github.com/wanderlist-app/auth-service/internal/pkg/log"
)

// Типы токенов. Клейм kind дублирует разнесение секретов: даже при
// ошибочной конфигурации с одинаковыми секретами access-токен не пройдёт
// refresh-проверку и наоборот.
const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

type tokenClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// signToken выпускает подписанный JWT указанного типа.
func (s *Service) signToken(userID uuid.UUID, username, secret, kind string, ttl time.Duration, now time.Time) (string, error) {
	const op = "service.token.signToken"

	claims := tokenClaims{
		UserID:   userID.String(),
		Username: username,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings(s.cfg.Audience),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// verifyToken проверяет подпись, срок действия и тип токена.
func (s *Service) verifyToken(raw, secret, kind string) (*models.AuthInfo, error) {
	const op = "service.token.verifyToken"

	token, err := jwt.ParseWithClaims(raw, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience...),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.Kind != kind {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &models.AuthInfo{UserID: uid, Username: claims.Username}, nil
}

// VerifyAccessToken валидирует access-токен и возвращает личность запроса.
func (s *Service) VerifyAccessToken(raw string) (*models.AuthInfo, error) {
	const op = "service.token.VerifyAccessToken"

	info, err := s.verifyToken(raw, s.cfg.AccessSecret, tokenKindAccess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return info, nil
}

// VerifyRefreshToken валидирует refresh-токен. «Сырой» токен прокидывается
// в AuthInfo: он понадобится Refresh для сверки с хэшем сессии.
func (s *Service) VerifyRefreshToken(raw string) (*models.AuthInfo, error) {
	const op = "service.token.VerifyRefreshToken"

	info, err := s.verifyToken(raw, s.cfg.RefreshSecret, tokenKindRefresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	info.RefreshToken = raw

	return info, nil
}

// issueTokenPair выпускает новую пару access+refresh токенов и перезаписывает
// хэш refresh-токена в строке пользователя.
//
// Перезапись (а не добавление) гарантирует единственную активную сессию:
// каждый выпуск пары делает предыдущий refresh-токен навсегда непригодным.
// Если сохранить хэш не удалось, наружу уходит ошибка и пара не отдаётся —
// «оба или ничего» с точки зрения вызывающего.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.token.issueTokenPair"

	lg := log.From(ctx)
	now := time.Now().UTC()

	accessToken, err := s.signToken(user.ID, user.Username, s.cfg.AccessSecret, tokenKindAccess, s.cfg.AccessTokenTTL, now)
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.signToken(user.ID, user.Username, s.cfg.RefreshSecret, tokenKindRefresh, s.cfg.RefreshTokenTTL, now)
	if err != nil {
		lg.Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := hashSecret(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		lg.Error("save_refresh_hash_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}
