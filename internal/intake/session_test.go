package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(10*time.Millisecond, zap.NewNop())

	store.Start(1)
	_, ok := store.Get(1)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	// expired entries are dropped on access
	_, ok = store.Get(1)
	assert.False(t, ok)
}

func TestSessionStore_Cleanup(t *testing.T) {
	store := NewSessionStore(10*time.Millisecond, zap.NewNop())

	store.Start(1)
	store.Start(2)
	time.Sleep(20 * time.Millisecond)
	store.Start(3)

	store.cleanup()

	assert.NotContains(t, store.sessions, int64(1))
	assert.NotContains(t, store.sessions, int64(2))
	assert.Contains(t, store.sessions, int64(3))
}

func TestSessionStore_TouchKeepsSessionAlive(t *testing.T) {
	store := NewSessionStore(30*time.Millisecond, zap.NewNop())

	store.Start(1)
	time.Sleep(20 * time.Millisecond)
	store.Touch(1)
	time.Sleep(20 * time.Millisecond)

	_, ok := store.Get(1)
	assert.True(t, ok)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(time.Minute, zap.NewNop())

	store.Start(1)
	store.Delete(1)
	// deleting twice is fine
	store.Delete(1)

	_, ok := store.Get(1)
	assert.False(t, ok)
}
