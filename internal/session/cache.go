// Package session caches the most recent search results per user so a
// follow-up "show #N" command can resolve N against the list the user
// actually saw.
package session

import (
	"sync"
	"time"

	"github.com/fyrsmithlabs/recallbot/internal/vectorstore"
)

// Session holds one user's last completed search.
type Session struct {
	// Matches is the reranked result list, in presentation order.
	Matches []vectorstore.SearchResult

	// Query is the originating query text.
	Query string

	// CreatedAt is when the search completed.
	CreatedAt time.Time
}

// Cache stores search sessions keyed by user identifier.
//
// One session per user: a new search fully replaces the previous one,
// invalidating earlier indices. Last-write-wins is acceptable because
// "show #N" always refers to the most recent completed search.
type Cache interface {
	// Put stores a session for the user, replacing any existing one.
	Put(userID int64, s Session)

	// Get returns the user's session. ok is false when no session
	// exists or the session has expired.
	Get(userID int64) (s Session, ok bool)

	// Evict removes the user's session.
	Evict(userID int64)
}

// MemoryCache is an in-memory Cache with TTL expiry.
//
// Expired entries are removed lazily on access, which bounds growth at
// one entry per user who ever searched. With per-user payloads of at
// most a handful of matches this stays small without a sweeper.
type MemoryCache struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[int64]Session

	// now is swappable in tests.
	now func() time.Time
}

// NewMemoryCache creates a MemoryCache. A non-positive ttl defaults to
// one hour.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryCache{
		ttl:      ttl,
		sessions: make(map[int64]Session),
		now:      time.Now,
	}
}

// Put stores a session, overwriting any existing one for the user.
func (c *MemoryCache) Put(userID int64, s Session) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = c.now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[userID] = s
}

// Get returns the user's live session, evicting it if expired.
func (c *MemoryCache) Get(userID int64) (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[userID]
	if !ok {
		return Session{}, false
	}
	if c.now().Sub(s.CreatedAt) > c.ttl {
		delete(c.sessions, userID)
		return Session{}, false
	}
	return s, true
}

// Evict removes the user's session.
func (c *MemoryCache) Evict(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, userID)
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
