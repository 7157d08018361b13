// Package broker provides an in-memory pub/sub hub scoped by session ID.
// Every accepted queue mutation is published here and fans out to all SSE
// connections watching that session.
package broker

import (
	"encoding/json"
	"sync"
)

// Event types pushed to session viewers.
const (
	EventSongAdded   = "song-added"
	EventSongVoted   = "song-voted"
	EventSongRemoved = "song-removed"
)

// subscriberBuffer is the per-connection event backlog. A viewer that falls
// further behind than this loses events rather than blocking the publisher;
// it will resynchronize from its next full-state fetch.
const subscriberBuffer = 16

// Event is one state change, carrying the full resulting record as JSON.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Broker is a session-scoped pub/sub hub. The session->subscribers map is the
// single source of truth for room membership; it is mutated only by Subscribe
// and Unsubscribe.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

// New creates a ready-to-use Broker.
func New() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a new viewer of the given session and returns its event
// channel. The channel is buffered; see subscriberBuffer.
func (b *Broker) Subscribe(sessionID string) chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan Event]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	return ch
}

// Unsubscribe removes a channel from the session's subscriber set.
// If the session has no remaining subscribers, the entry is cleaned up.
func (b *Broker) Unsubscribe(sessionID string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if subs, ok := b.subs[sessionID]; ok {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(b.subs, sessionID)
		}
	}
}

// Publish delivers an event to every subscriber of the given session.
// Delivery is fire-and-forget: a subscriber whose buffer is full is skipped,
// and publishing to a session with no subscribers is a no-op.
func (b *Broker) Publish(sessionID string, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[sessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
