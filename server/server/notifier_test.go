package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierPublishSubscribe(t *testing.T) {
	n := newNotifier()

	id1, ch1 := n.subscribe()
	id2, ch2 := n.subscribe()
	assert.NotEqual(t, id1, id2)

	ev := recordEvent{RecordID: 1, CollectorID: "livingroom", FrameType: "footer", Fields: json.RawMessage(`{"type":"footer"}`)}
	n.publish(ev)

	assert.Equal(t, ev, <-ch1)
	assert.Equal(t, ev, <-ch2)
}

func TestNotifierUnsubscribe(t *testing.T) {
	n := newNotifier()

	id, ch := n.subscribe()
	n.unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)

	// Unsubscribing twice is harmless.
	n.unsubscribe(id)
	n.publish(recordEvent{RecordID: 2})
}

func TestNotifierSlowSubscriberDropsEvents(t *testing.T) {
	n := newNotifier()

	_, ch := n.subscribe()
	// Fill the buffer past capacity; publish must never block ingest.
	for i := 0; i < 40; i++ {
		n.publish(recordEvent{RecordID: int64(i)})
	}

	first := <-ch
	require.Equal(t, int64(0), first.RecordID)
	assert.Equal(t, 15, len(ch))
}
