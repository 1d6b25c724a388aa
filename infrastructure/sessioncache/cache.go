// Package sessioncache implements session continuity as a two-tier cache:
// a remote key-value store tried first, falling back to process-local maps
// with TTLs and FIFO eviction the moment the remote store errors.
package sessioncache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/felixgeelhaar/agent-go/domain/cache"
	"github.com/felixgeelhaar/agent-go/domain/session"
	"github.com/felixgeelhaar/agent-go/infrastructure/logging"
)

const (
	sessionKeyPrefix = "session:"
	topicsKeyPrefix  = "topics:"
)

type localEntry struct {
	data      []byte
	expiresAt time.Time
}

// Manager is a session.Store backed by a remote cache.Cache, with an
// in-process fallback used once the remote store has been observed to
// fail. One Manager instance owns one redisAvailable flag, per the spec's
// per-manager fallback semantics.
type Manager struct {
	mu              sync.Mutex
	remote          cache.Cache
	redisAvailable  bool
	localSessions   map[string]localEntry // FIFO via insertion order tracked below
	sessionOrder    []string
	localTopics     map[string]localEntry
	topicOrder      []string
}

// New creates a Manager over the given remote cache. The remote store is
// assumed healthy until the first failed operation.
func New(remote cache.Cache) *Manager {
	return &Manager{
		remote:         remote,
		redisAvailable: true,
		localSessions:  make(map[string]localEntry),
		localTopics:    make(map[string]localEntry),
	}
}

// GetSession implements session.Store.
func (m *Manager) GetSession(sessionID string) (session.Record, bool) {
	key := sessionKeyPrefix + sessionID
	raw, ok := m.get(key, true)
	if !ok {
		return session.Record{}, false
	}
	var rec session.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return session.Record{}, false
	}
	return rec, true
}

// PutSession implements session.Store.
func (m *Manager) PutSession(rec session.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := sessionKeyPrefix + rec.SessionID
	m.put(key, raw, session.SessionTTL, true)
	return nil
}

// GetTopics implements session.Store.
func (m *Manager) GetTopics(userID string) (session.TopicSet, bool) {
	key := topicsKeyPrefix + userID
	raw, ok := m.get(key, false)
	if !ok {
		return session.TopicSet{}, false
	}
	var ts session.TopicSet
	if err := json.Unmarshal(raw, &ts); err != nil {
		return session.TopicSet{}, false
	}
	return ts, true
}

// PutTopics implements session.Store.
func (m *Manager) PutTopics(ts session.TopicSet) error {
	raw, err := json.Marshal(ts)
	if err != nil {
		return err
	}
	key := topicsKeyPrefix + ts.UserID
	m.put(key, raw, session.TopicTTL, false)
	return nil
}

func (m *Manager) get(key string, isSession bool) ([]byte, bool) {
	m.mu.Lock()
	useRemote := m.redisAvailable
	m.mu.Unlock()

	if useRemote {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		val, found, err := m.remote.Get(ctx, key)
		if err == nil {
			return val, found
		}
		m.markRemoteDown(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	store := m.localSessions
	if !isSession {
		store = m.localTopics
	}
	entry, ok := store[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(store, key)
		return nil, false
	}
	return entry.data, true
}

func (m *Manager) put(key string, value []byte, ttl time.Duration, isSession bool) {
	m.mu.Lock()
	useRemote := m.redisAvailable
	m.mu.Unlock()

	if useRemote {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := m.remote.Set(ctx, key, value, cache.SetOptions{TTL: ttl})
		if err == nil {
			return
		}
		m.markRemoteDown(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if isSession {
		m.putLocal(m.localSessions, &m.sessionOrder, key, value, ttl, session.MaxSessions)
	} else {
		m.putLocal(m.localTopics, &m.topicOrder, key, value, ttl, session.MaxUsers)
	}
}

// putLocal inserts into a bounded map, evicting the oldest key (FIFO over
// insertion order) when the cap is exceeded.
func (m *Manager) putLocal(store map[string]localEntry, order *[]string, key string, value []byte, ttl time.Duration, cap int) {
	if _, exists := store[key]; !exists {
		*order = append(*order, key)
	}
	store[key] = localEntry{data: value, expiresAt: time.Now().Add(ttl)}

	for len(*order) > cap {
		oldest := (*order)[0]
		*order = (*order)[1:]
		delete(store, oldest)
	}
}

func (m *Manager) markRemoteDown(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redisAvailable {
		logging.Warn().Add(logging.ErrorField(err)).Msg("remote session store unavailable, falling back to in-memory cache")
	}
	m.redisAvailable = false
}

// RedisAvailable reports whether the remote store is currently believed
// healthy.
func (m *Manager) RedisAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.redisAvailable
}
