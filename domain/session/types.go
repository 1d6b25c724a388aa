// Package session provides the domain model for cross-conversation session
// continuity: per-user session state and recency-bounded topic sets.
package session

import "time"

// SessionTTL is how long a session record is retained.
const SessionTTL = 24 * time.Hour

// TopicTTL is how long a user's topic set is retained.
const TopicTTL = 30 * 24 * time.Hour

// Caps bound the in-memory fallback store.
const (
	MaxSessions       = 1000
	MaxTopicsPerUser  = 100
	MaxUsers          = 500
)

// Record is the continuity state carried between conversation turns.
type Record struct {
	SessionID    string
	UserID       string
	LastGoal     string
	LastState    string
	Observations []string
	UpdatedAt    time.Time
}

// TopicSet is the bounded set of topics a user has discussed, used to avoid
// re-asking about subjects already covered.
type TopicSet struct {
	UserID    string
	Topics    []string
	UpdatedAt time.Time
}

// AddTopic appends a topic if not already present, evicting the oldest
// entry (index 0) when the cap is exceeded.
func (t *TopicSet) AddTopic(topic string) {
	for _, existing := range t.Topics {
		if existing == topic {
			return
		}
	}
	t.Topics = append(t.Topics, topic)
	if len(t.Topics) > MaxTopicsPerUser {
		t.Topics = t.Topics[len(t.Topics)-MaxTopicsPerUser:]
	}
}

// Store is the port the runner uses for session continuity, backed by a
// two-tier cache (remote primary, local fallback).
type Store interface {
	GetSession(sessionID string) (Record, bool)
	PutSession(rec Record) error
	GetTopics(userID string) (TopicSet, bool)
	PutTopics(ts TopicSet) error
}
