package server

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// recordEvent is pushed to stream subscribers for every newly decoded
// command.
type recordEvent struct {
	RecordID    int64           `json:"id"`
	CollectorID string          `json:"collectorId"`
	FrameType   string          `json:"type"`
	Fields      json.RawMessage `json:"fields"`
}

// notifier fans newly decoded records out to websocket subscribers. Sends
// never block: a subscriber that cannot keep up misses events instead of
// stalling ingest.
type notifier struct {
	mu          sync.Mutex
	subscribers map[string]chan recordEvent
}

func newNotifier() *notifier {
	return &notifier{subscribers: make(map[string]chan recordEvent)}
}

func (n *notifier) subscribe() (string, <-chan recordEvent) {
	id := uuid.NewString()
	ch := make(chan recordEvent, 16)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers[id] = ch
	return id, ch
}

func (n *notifier) unsubscribe(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if ch, ok := n.subscribers[id]; ok {
		close(ch)
		delete(n.subscribers, id)
	}
}

func (n *notifier) publish(ev recordEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
