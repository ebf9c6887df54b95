package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wanderlist-app/auth-service/internal/cache"
	"github.com/wanderlist-app/auth-service/internal/models"
	"github.com/wanderlist-app/auth-service/internal/storage"
)

// fakeProfileCache — потокобезопасный in-memory кэш для юнит-тестов
// с инъекцией ошибок.
type fakeProfileCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*cache.ProfileEntry

	getErr error
	setErr error
	delErr error
}

func newFakeProfileCache() *fakeProfileCache {
	return &fakeProfileCache{entries: make(map[uuid.UUID]*cache.ProfileEntry)}
}

func (f *fakeProfileCache) Get(_ context.Context, id uuid.UUID) (*cache.ProfileEntry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, false, f.getErr
	}

	e, ok := f.entries[id]
	return e, ok, nil
}

func (f *fakeProfileCache) Set(_ context.Context, id uuid.UUID, e *cache.ProfileEntry, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}

	f.entries[id] = e
	return nil
}

func (f *fakeProfileCache) Invalidate(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.delErr != nil {
		return f.delErr
	}

	delete(f.entries, id)
	return nil
}

func (f *fakeProfileCache) Close() error { return nil }

func TestProfileByID_ReadThrough(t *testing.T) {
	t.Parallel()

	svc, str := newAuthService(t)
	pc := newFakeProfileCache()
	svc.SetProfileCache(pc, time.Minute)

	now := time.Now().UTC().Truncate(time.Second)
	user := &models.User{ID: uuid.New(), Username: "alice", CreatedAt: now, UpdatedAt: now}

	// Ровно одно обращение к БД: второй вызов обслуживается кэшем.
	str.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil).Times(1)

	got, err := svc.ProfileByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)

	got, err = svc.ProfileByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, now, got.CreatedAt)
}

func TestProfileByID_NotFound(t *testing.T) {
	t.Parallel()

	svc, str := newAuthService(t)
	uid := uuid.New()

	str.EXPECT().UserByID(gomock.Any(), uid).Return(nil, storage.ErrNotFound)

	_, err := svc.ProfileByID(context.Background(), uid)
	require.ErrorIs(t, err, ErrUserNotFound)
}

// Ошибки кэша не фатальны: источник истины — БД.
func TestProfileByID_CacheFailureFallsBackToDB(t *testing.T) {
	t.Parallel()

	svc, str := newAuthService(t)
	pc := newFakeProfileCache()
	pc.getErr = errors.New("redis: connection refused")
	pc.setErr = errors.New("redis: connection refused")
	svc.SetProfileCache(pc, time.Minute)

	user := &models.User{ID: uuid.New(), Username: "alice"}
	str.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)

	got, err := svc.ProfileByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
}

func TestUpdateProfile_OK(t *testing.T) {
	t.Parallel()

	svc, str := newAuthService(t)
	pc := newFakeProfileCache()
	svc.SetProfileCache(pc, time.Minute)

	uid := uuid.New()
	pc.entries[uid] = &cache.ProfileEntry{Username: "alice"}

	newName := "alice2"
	newPassword := "Another123!"
	updated := &models.User{ID: uid, Username: newName}

	str.EXPECT().UpdateProfile(gomock.Any(), uid, gomock.Not(gomock.Nil()), gomock.Not(gomock.Nil())).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, username, passwordHash *string) (*models.User, error) {
			require.Equal(t, newName, *username)
			// В хранилище уходит хэш, а не пароль.
			require.NotEqual(t, newPassword, *passwordHash)
			require.True(t, verifySecret(*passwordHash, newPassword))
			return updated, nil
		})

	got, err := svc.UpdateProfile(context.Background(), uid, &newName, &newPassword)
	require.NoError(t, err)
	require.Equal(t, newName, got.Username)

	// Кэш инвалидирован.
	_, ok := pc.entries[uid]
	require.False(t, ok)
}

func TestUpdateProfile_NilMeansUnchanged(t *testing.T) {
	t.Parallel()

	svc, str := newAuthService(t)
	uid := uuid.New()
	user := &models.User{ID: uid, Username: "alice"}

	str.EXPECT().UpdateProfile(gomock.Any(), uid, gomock.Nil(), gomock.Nil()).Return(user, nil)

	got, err := svc.UpdateProfile(context.Background(), uid, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
}

func TestUpdateProfile_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid username", func(t *testing.T) {
		t.Parallel()

		svc, _ := newAuthService(t)
		bad := "a!"

		_, err := svc.UpdateProfile(context.Background(), uuid.New(), &bad, nil)
		require.ErrorIs(t, err, ErrInvalidUsername)
	})

	t.Run("weak password", func(t *testing.T) {
		t.Parallel()

		svc, _ := newAuthService(t)
		weak := "short"

		_, err := svc.UpdateProfile(context.Background(), uuid.New(), nil, &weak)
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("username taken", func(t *testing.T) {
		t.Parallel()

		svc, str := newAuthService(t)
		uid := uuid.New()
		name := "taken"

		str.EXPECT().UpdateProfile(gomock.Any(), uid, gomock.Any(), gomock.Nil()).
			Return(nil, storage.ErrAlreadyExists)

		_, err := svc.UpdateProfile(context.Background(), uid, &name, nil)
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("user not found", func(t *testing.T) {
		t.Parallel()

		svc, str := newAuthService(t)
		uid := uuid.New()
		name := "alice"

		str.EXPECT().UpdateProfile(gomock.Any(), uid, gomock.Any(), gomock.Nil()).
			Return(nil, storage.ErrNotFound)

		_, err := svc.UpdateProfile(context.Background(), uid, &name, nil)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
