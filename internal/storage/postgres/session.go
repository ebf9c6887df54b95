package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wanderlist-app/auth-service/internal/storage"
)

// UpdateRefreshTokenHash записывает хэш текущего refresh-токена.
//
// Поле refresh_token_hash всегда входит в SET: nil уезжает в БД как явный
// NULL. «Не передано» на этом уровне не существует — молчаливый no-op при
// завершении сессии оставил бы разлогиненный токен рабочим.
func (s *Storage) UpdateRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error {
	const op = "storage.postgres.UpdateRefreshTokenHash"

	query := `
		UPDATE users
		SET refresh_token_hash = $2,
		    updated_at = $3
		WHERE id = $1
	`

	cmdTag, err := s.db.Exec(ctx, query, id, hash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
