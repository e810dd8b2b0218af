package snapshot

import (
	"encoding/json"
	"sync"

	"golang.org/x/net/websocket"
)

// Stream fans out one Snapshot per tick commit to every connected
// websocket observer. A slow observer misses snapshots while its buffer is
// full rather than blocking the publisher, and a disconnected observer is
// removed once a write to it fails (§5: external consumers never block the
// tick loop).
type Stream struct {
	mu        sync.Mutex
	observers map[*websocket.Conn]chan Snapshot
}

// NewStream constructs an empty broadcast stream.
func NewStream() *Stream {
	return &Stream{observers: make(map[*websocket.Conn]chan Snapshot)}
}

const observerBuffer = 4

// Handler returns a websocket.Handler that registers the connection as an
// observer until the stream is closed or a write to it fails.
func (s *Stream) Handler() websocket.Handler {
	return func(ws *websocket.Conn) {
		ch := make(chan Snapshot, observerBuffer)
		s.mu.Lock()
		s.observers[ws] = ch
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			delete(s.observers, ws)
			s.mu.Unlock()
			ws.Close()
		}()

		for snap := range ch {
			payload, err := json.Marshal(snap)
			if err != nil {
				return
			}
			if _, err := ws.Write(payload); err != nil {
				return
			}
		}
	}
}

// Publish fans snap out to every connected observer. Observers whose
// buffer is full are skipped for this tick rather than blocking the
// publisher.
func (s *Stream) Publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ws, ch := range s.observers {
		select {
		case ch <- snap:
		default:
			_ = ws // backpressure drop; the observer will catch up next tick
		}
	}
}

// Close shuts down every observer channel.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ws, ch := range s.observers {
		close(ch)
		delete(s.observers, ws)
	}
}
