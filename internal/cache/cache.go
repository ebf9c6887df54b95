package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProfileEntry описывает данные профиля, которые мы храним в Redis по ID
// пользователя. Только отображаемые поля: хэши паролей и refresh-токенов
// в кэш не попадают никогда.
type ProfileEntry struct {
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileCache — минимальный контракт кэша профилей.
type ProfileCache interface {
	// Get возвращает запись и признак её наличия в кэше.
	Get(ctx context.Context, id uuid.UUID) (*ProfileEntry, bool, error)
	// Set сохраняет запись с TTL.
	Set(ctx context.Context, id uuid.UUID, e *ProfileEntry, ttl time.Duration) error
	// Invalidate удаляет запись (после обновления профиля).
	Invalidate(ctx context.Context, id uuid.UUID) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "auth:profile:".
func NewRedisCache(redisURL, prefix string) (ProfileCache, error) {
	if prefix == "" {
		prefix = "auth:profile:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(id uuid.UUID) string { return c.prefix + id.String() }

// Храним как Redis Hash с полями: uname, created (unix), updated (unix).
func (c *redisCache) Get(ctx context.Context, id uuid.UUID) (*ProfileEntry, bool, error) {
	m, err := c.rdb.HGetAll(ctx, c.key(id)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	createdUnix, err := strconv.ParseInt(m["created"], 10, 64)
	if err != nil {
		return nil, false, err
	}

	updatedUnix, err := strconv.ParseInt(m["updated"], 10, 64)
	if err != nil {
		return nil, false, err
	}

	return &ProfileEntry{
		Username:  m["uname"],
		CreatedAt: time.Unix(createdUnix, 0).UTC(),
		UpdatedAt: time.Unix(updatedUnix, 0).UTC(),
	}, true, nil
}

func (c *redisCache) Set(ctx context.Context, id uuid.UUID, e *ProfileEntry, ttl time.Duration) error {
	kv := map[string]string{
		"uname":   e.Username,
		"created": strconv.FormatInt(e.CreatedAt.Unix(), 10),
		"updated": strconv.FormatInt(e.UpdatedAt.Unix(), 10),
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, c.key(id), kv)
	if ttl > 0 {
		pipe.Expire(ctx, c.key(id), ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (c *redisCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.rdb.Del(ctx, c.key(id)).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
