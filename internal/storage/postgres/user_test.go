package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/wanderlist-app/auth-service/internal/models"
	"github.com/wanderlist-app/auth-service/internal/storage"
)

// Файл интеграционных тестов для пакета postgres (репозиторий user.go):
// - поднимает реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяет миграции из ./migrations (1_init_users.up.sql);
// - проверяет happy-path (создание и поиск по username/ID), уникальность username (CITEXT);
// - валидирует сценарии отсутствия записей (storage.ErrNotFound) и обработку ошибок контекста.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
// Используется для поиска SQL-миграций в каталоге ./migrations независимо от текущего рабочего каталога.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	root := repoRootFromThisFile()
	path := filepath.Join(root, "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает временный экземпляр PostgreSQL через testcontainers-go,
// применяет миграцию users и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// применяем миграции.
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "1_init_users.up.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// mustSaveUser — сохраняет пользователя с заданным username и возвращает его.
func mustSaveUser(t *testing.T, st *Storage, username string) *models.User {
	t.Helper()

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.SaveUser(context.Background(), u))

	return u
}

// TestIntegration_SaveUser_And_GetByUsername_And_ByID_OK — happy-path:
// сохранение пользователя и последующий поиск по username (CITEXT — регистронезависимо) и ID.
func TestIntegration_SaveUser_And_GetByUsername_And_ByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "Alice")

	gotByName, err := st.UserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByName.ID)
	require.Nil(t, gotByName.RefreshTokenHash)
	require.WithinDuration(t, u.CreatedAt, gotByName.CreatedAt, time.Second)
	require.WithinDuration(t, u.UpdatedAt, gotByName.UpdatedAt, time.Second)

	gotByID, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, gotByID.ID)
	require.Equal(t, "Alice", gotByID.Username)
}

// TestIntegration_SaveUser_UniqueUsername_CaseInsensitive_Violation — конфликт уникальности
// по username при различии только в регистре, ожидаем storage.ErrAlreadyExists.
func TestIntegration_SaveUser_UniqueUsername_CaseInsensitive_Violation(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	mustSaveUser(t, st, "alice")

	now := time.Now().UTC()
	dup := &models.User{
		ID:           uuid.New(),
		Username:     "ALICE", // тот же username, другой регистр
		PasswordHash: "h2",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := st.SaveUser(context.Background(), dup)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_UserByUsername_NotFound — поиск отсутствующей записи,
// ожидаем storage.ErrNotFound.
func TestIntegration_UserByUsername_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByUsername(context.Background(), "absent")
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UserByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_UpdateProfile — nil-аргументы оставляют поле как есть (COALESCE),
// включая refresh_token_hash, который этим методом не трогается вовсе.
func TestIntegration_UpdateProfile(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "alice")

	sessionHash := "session-hash"
	require.NoError(t, st.UpdateRefreshTokenHash(context.Background(), u.ID, &sessionHash))

	newName := "alice2"
	got, err := st.UpdateProfile(context.Background(), u.ID, &newName, nil)
	require.NoError(t, err)
	require.Equal(t, "alice2", got.Username)
	require.Equal(t, "hash", got.PasswordHash)
	// Сессия не затронута обновлением профиля.
	require.NotNil(t, got.RefreshTokenHash)
	require.Equal(t, sessionHash, *got.RefreshTokenHash)

	newHash := "new-password-hash"
	got, err = st.UpdateProfile(context.Background(), u.ID, nil, &newHash)
	require.NoError(t, err)
	require.Equal(t, "alice2", got.Username)
	require.Equal(t, "new-password-hash", got.PasswordHash)
}

// TestIntegration_UpdateProfile_Conflicts — занятый username и отсутствующий пользователь.
func TestIntegration_UpdateProfile_Conflicts(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	mustSaveUser(t, st, "alice")
	b := mustSaveUser(t, st, "bob")

	taken := "Alice"
	_, err := st.UpdateProfile(context.Background(), b.ID, &taken, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	name := "ghost"
	_, err = st.UpdateProfile(context.Background(), uuid.New(), &name, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_Queries_ContextCanceled — отменённый контекст должен «просочиться»
// в ошибки чтения как context.Canceled.
func TestIntegration_Queries_ContextCanceled(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // отменяем заранее

	_, err := st.UserByUsername(ctx, "alice")
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)

	_, err = st.UserByID(ctx, uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}
