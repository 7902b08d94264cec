// Package sessioncache persists an issued session for client tooling: the
// token, the denormalized profile fields the UI shows without a round
// trip, and the last-activity stamp behind the idle-timeout prompt. It is
// a convenience layer only; the server verifies every request regardless
// of what this cache says.
package sessioncache

import (
	"time"
)

// Session is the cached login state
type Session struct {
	Token        string    `json:"token"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	UserID       string    `json:"user_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Store persists a session record
type Store interface {
	Write(session *Session) error
	Read() (*Session, error)
	Delete() error
}

// Cache wraps a persistent and a volatile store, choosing between them by
// the caller's "remember me" preference.
type Cache struct {
	persistent Store
	volatile   Store
	now        func() time.Time
}

// New creates a cache over the two stores
func New(persistent, volatile Store) *Cache {
	return &Cache{
		persistent: persistent,
		volatile:   volatile,
		now:        time.Now,
	}
}

// Save stores the session. With persistent=false the record only lives
// until the process exits.
func (c *Cache) Save(session *Session, persistent bool) error {
	if session.LastActivity.IsZero() {
		session.LastActivity = c.now()
	}

	if persistent {
		// A stale volatile copy must not shadow the new login
		_ = c.volatile.Delete()
		return c.persistent.Write(session)
	}

	_ = c.persistent.Delete()
	return c.volatile.Write(session)
}

// Load returns the cached session, checking both stores. An expired record
// is cleared and reported as absent.
func (c *Cache) Load() (*Session, error) {
	for _, store := range []Store{c.volatile, c.persistent} {
		session, err := store.Read()
		if err != nil {
			return nil, err
		}
		if session == nil {
			continue
		}

		if !c.now().Before(session.ExpiresAt) {
			_ = store.Delete()
			continue
		}

		return session, nil
	}

	return nil, nil
}

// Clear removes the session from both stores
func (c *Cache) Clear() error {
	volatileErr := c.volatile.Delete()
	persistentErr := c.persistent.Delete()
	if volatileErr != nil {
		return volatileErr
	}
	return persistentErr
}

// TouchActivity stamps the current instant as the last user interaction
func (c *Cache) TouchActivity() error {
	session, store, err := c.loadWithStore()
	if err != nil || session == nil {
		return err
	}

	session.LastActivity = c.now()
	return store.Write(session)
}

// IsIdle reports whether the cached session has seen no activity for at
// least the threshold. An absent session is idle.
func (c *Cache) IsIdle(threshold time.Duration) (bool, error) {
	session, err := c.Load()
	if err != nil {
		return false, err
	}
	if session == nil {
		return true, nil
	}

	return c.now().Sub(session.LastActivity) >= threshold, nil
}

func (c *Cache) loadWithStore() (*Session, Store, error) {
	for _, store := range []Store{c.volatile, c.persistent} {
		session, err := store.Read()
		if err != nil {
			return nil, nil, err
		}
		if session == nil {
			continue
		}
		if !c.now().Before(session.ExpiresAt) {
			_ = store.Delete()
			continue
		}
		return session, store, nil
	}
	return nil, nil, nil
}
