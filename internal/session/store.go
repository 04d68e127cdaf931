package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"signalmap/internal/logging"
)

// CookieName is the cookie carrying the session id.
const CookieName = "signalmap_session"

// NewID returns a fresh opaque session id.
func NewID() string { return uuid.NewString() }

type entry struct {
	text    string
	touched time.Time
}

// Store holds the serialized Session of every browser session. Entries idle
// for longer than the TTL are dropped on the next Put.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a Store. A ttl of zero keeps sessions until cleared.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put replaces the whole stored session for id.
func (st *Store) Put(id string, s Session) error {
	text, err := Encode(s)
	if err != nil {
		return err
	}
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweepLocked(now)
	st.entries[id] = entry{text: text, touched: now}
	return nil
}

// Get returns the session stored for id, or the empty Session. An entry idle
// for longer than the TTL counts as absent and is dropped.
func (st *Store) Get(id string) Session {
	now := st.now()
	st.mu.Lock()
	e, ok := st.entries[id]
	if ok && st.expired(e, now) {
		delete(st.entries, id)
		logging.Debugf("session %s expired", id)
		ok = false
	}
	if ok {
		e.touched = now
		st.entries[id] = e
	}
	st.mu.Unlock()
	if !ok {
		return Session{}
	}

	s, err := Decode(e.text)
	if err != nil {
		logging.Warnf("session %s: %v", id, err)
		return Session{}
	}
	return s
}

// Text returns the serialized form stored for id.
func (st *Store) Text(id string) (string, bool) {
	now := st.now()
	st.mu.RLock()
	defer st.mu.RUnlock()
	e, ok := st.entries[id]
	if !ok || st.expired(e, now) {
		return "", false
	}
	return e.text, true
}

// Clear empties the session for id.
func (st *Store) Clear(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.entries, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.entries)
}

func (st *Store) expired(e entry, now time.Time) bool {
	return st.ttl > 0 && now.Sub(e.touched) > st.ttl
}

func (st *Store) sweepLocked(now time.Time) {
	if st.ttl <= 0 {
		return
	}
	for id, e := range st.entries {
		if st.expired(e, now) {
			delete(st.entries, id)
			logging.Debugf("session %s expired", id)
		}
	}
}
