package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juntimo/juntimo-backend/internal/config"
	"github.com/juntimo/juntimo-backend/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	store, err := InitServer(context.Background(), cfg, time.Hour)
	require.NoError(t, err)
	return store
}

func testPending() models.PendingEnrollment {
	return models.PendingEnrollment{
		OrderID:  "ORDER-1",
		ProjetID: "6f1c1d2e-3a4b-4f0b-8f25-9a714c2b6d0e",
		DraftUser: &models.DraftUser{
			Nom:    "Kouassi",
			Prenom: "Jean",
			Email:  "jean.kouassi@example.com",
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestPutAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	expected := testPending()
	err := store.Put(ctx, "sess-1", expected)
	require.NoError(t, err)

	actual, found, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected.OrderID, actual.OrderID)
	assert.Equal(t, expected.ProjetID, actual.ProjetID)
	require.NotNil(t, actual.DraftUser)
	assert.Equal(t, expected.DraftUser.Email, actual.DraftUser.Email)
	assert.True(t, expected.CreatedAt.Equal(actual.CreatedAt))
}

func TestGetNotFound(t *testing.T) {
	store := setupTestStore(t)

	rec, found, err := store.Get(context.Background(), "no_such_session")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, rec)
}

func TestPutOverwritesPrevious(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := testPending()
	require.NoError(t, store.Put(ctx, "sess-1", first))

	second := testPending()
	second.OrderID = "ORDER-2"
	require.NoError(t, store.Put(ctx, "sess-1", second))

	actual, found, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ORDER-2", actual.OrderID)
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "sess-1", testPending()))
	require.NoError(t, store.Clear(ctx, "sess-1"))

	_, found, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, found)

	// Повторная очистка отсутствующей записи не ошибка.
	require.NoError(t, store.Clear(ctx, "sess-1"))
}

func TestGetInvalidJSON(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.Db.Set(ctx, "pending:bad", []byte("not-json"), time.Minute).Err()
	require.NoError(t, err)

	rec, found, err := store.Get(ctx, "bad")
	assert.False(t, found)
	assert.Nil(t, rec)
	assert.Error(t, err)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:9999",
	}

	store, err := InitServer(context.Background(), cfg, time.Hour)
	assert.Nil(t, store)
	assert.Error(t, err)
}
