package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

type rawKeyer struct{}

func (rawKeyer) AccessSessionKey(accessID string) string {
	return "session:" + accessID
}

func newTestManager(store *memoryStore) *Manager {
	return &Manager{store: store, keyer: rawKeyer{}, ttl: time.Hour}
}

func TestGenerateStoresToken(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, store.values["session:acc-1"])
}

func TestGenerateRequiresAccessID(t *testing.T) {
	mgr := newTestManager(newMemoryStore())

	_, err := mgr.Generate(context.Background(), "  ")
	require.Error(t, err)
}

func TestRotateIssuesNewPairAndRevokesOld(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "acc-1")
	require.NoError(t, err)

	newAccessID, newToken, err := mgr.Rotate(context.Background(), "acc-1", token)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccessID)
	assert.NotEqual(t, token, newToken)

	_, ok := store.values["session:acc-1"]
	assert.False(t, ok, "old session should be deleted")
	assert.Equal(t, newToken, store.values["session:"+newAccessID])
}

func TestRotateRejectsWrongToken(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	_, err := mgr.Generate(context.Background(), "acc-1")
	require.NoError(t, err)

	_, _, err = mgr.Rotate(context.Background(), "acc-1", "not-the-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRotateRejectsUnknownSession(t *testing.T) {
	mgr := newTestManager(newMemoryStore())

	_, _, err := mgr.Rotate(context.Background(), "missing", "whatever")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRevokeDeletesSession(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	token, err := mgr.Generate(context.Background(), "acc-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, mgr.Revoke(context.Background(), "acc-1"))

	has, err := mgr.HasSession(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestHasSession(t *testing.T) {
	store := newMemoryStore()
	mgr := newTestManager(store)

	has, err := mgr.HasSession(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = mgr.Generate(context.Background(), "acc-1")
	require.NoError(t, err)

	has, err = mgr.HasSession(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.True(t, has)
}
