package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/recallbot/internal/vectorstore"
)

func sessionWith(ids ...string) Session {
	matches := make([]vectorstore.SearchResult, len(ids))
	for i, id := range ids {
		matches[i] = vectorstore.SearchResult{ID: id}
	}
	return Session{Matches: matches, Query: "test"}
}

func TestCachePutGet(t *testing.T) {
	cache := NewMemoryCache(time.Hour)

	cache.Put(1, sessionWith("a", "b"))

	s, ok := cache.Get(1)
	require.True(t, ok)
	assert.Len(t, s.Matches, 2)
	assert.False(t, s.CreatedAt.IsZero())

	_, ok = cache.Get(2)
	assert.False(t, ok)
}

func TestCacheOverwrite(t *testing.T) {
	cache := NewMemoryCache(time.Hour)

	cache.Put(1, sessionWith("a", "b"))
	cache.Put(1, sessionWith("c"))

	s, ok := cache.Get(1)
	require.True(t, ok)
	require.Len(t, s.Matches, 1)
	assert.Equal(t, "c", s.Matches[0].ID)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewMemoryCache(time.Hour)

	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put(1, sessionWith("a"))

	current = current.Add(59 * time.Minute)
	_, ok := cache.Get(1)
	assert.True(t, ok)

	current = current.Add(2 * time.Minute)
	_, ok = cache.Get(1)
	assert.False(t, ok)

	// Expired entry is removed, not just hidden.
	cache.mu.Lock()
	_, present := cache.sessions[1]
	cache.mu.Unlock()
	assert.False(t, present)
}

func TestCacheEvict(t *testing.T) {
	cache := NewMemoryCache(time.Hour)

	cache.Put(1, sessionWith("a"))
	cache.Evict(1)

	_, ok := cache.Get(1)
	assert.False(t, ok)
}

func TestCacheDefaultTTL(t *testing.T) {
	cache := NewMemoryCache(0)
	assert.Equal(t, time.Hour, cache.ttl)
}
