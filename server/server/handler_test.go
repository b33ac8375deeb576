package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func newTestHandlers(t *testing.T) *handlers {
	t.Helper()
	store, err := openStore(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.close() })
	return newHandlers(store)
}

// tempFrameTimings synthesizes the 35 receiver durations of a short
// temperature frame.
func tempFrameTimings(degrees, magic byte) []int {
	durations := []int{6000, -3000}
	for _, b := range []byte{degrees, magic} {
		for j := 0; j < 8; j++ {
			if b>>j&1 == 1 {
				durations = append(durations, 700, -1600)
			} else {
				durations = append(durations, 700, -500)
			}
		}
	}
	return append(durations, 700)
}

func postChunk(t *testing.T, h *handlers, req chunkRequest) (int, chunkResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/ir/chunk", bytes.NewReader(body))
	h.chunkHandler(w, r)

	var resp chunkResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func TestChunkIngest(t *testing.T) {
	h := newTestHandlers(t)
	timings := tempFrameTimings(24, 0xA5)

	code, resp := postChunk(t, h, chunkRequest{CollectorID: "livingroom", FrameStart: true, Durations: timings[:20]})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "accepted", resp.Status)
	assert.Nil(t, resp.Record)

	code, resp = postChunk(t, h, chunkRequest{CollectorID: "livingroom", Durations: timings[20:]})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "decoded", resp.Status)
	require.NotNil(t, resp.Record)
	assert.Equal(t, "temp", resp.Record.FrameType)
	assert.JSONEq(t, `{"type":"temp","temp":24}`, string(resp.Record.Fields))
	assert.False(t, resp.Record.Timestamp.IsZero())

	// The ingest response matches what a later query returns.
	records, err := h.store.queryRecords("livingroom", "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, resp.Record.ID, records[0].ID)
	assert.WithinDuration(t, records[0].Timestamp, resp.Record.Timestamp, time.Second)
}

func TestChunkIngestPerCollectorState(t *testing.T) {
	h := newTestHandlers(t)
	timings := tempFrameTimings(24, 0xA5)

	// Interleaved chunks from two collectors assemble independently.
	_, resp := postChunk(t, h, chunkRequest{CollectorID: "a", FrameStart: true, Durations: timings[:20]})
	assert.Equal(t, "accepted", resp.Status)
	_, resp = postChunk(t, h, chunkRequest{CollectorID: "b", FrameStart: true, Durations: timings[:10]})
	assert.Equal(t, "accepted", resp.Status)
	_, resp = postChunk(t, h, chunkRequest{CollectorID: "a", Durations: timings[20:]})
	assert.Equal(t, "decoded", resp.Status)
	_, resp = postChunk(t, h, chunkRequest{CollectorID: "b", Durations: timings[10:]})
	assert.Equal(t, "decoded", resp.Status)
}

func TestChunkRejected(t *testing.T) {
	h := newTestHandlers(t)
	timings := tempFrameTimings(24, 0xA5)
	timings[3] = -1000 // corrupt one pulse

	code, resp := postChunk(t, h, chunkRequest{CollectorID: "livingroom", FrameStart: true, Durations: timings})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rejected", resp.Status)
	assert.Contains(t, resp.Reason, "invalid symbol")

	// The decoder stays usable for the next frame.
	_, resp = postChunk(t, h, chunkRequest{CollectorID: "livingroom", FrameStart: true, Durations: tempFrameTimings(24, 0xA5)})
	assert.Equal(t, "decoded", resp.Status)
}

func TestChunkStoresWarnings(t *testing.T) {
	h := newTestHandlers(t)

	_, resp := postChunk(t, h, chunkRequest{CollectorID: "livingroom", FrameStart: true, Durations: tempFrameTimings(24, 0x5A)})
	assert.Equal(t, "decoded", resp.Status)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ir/warnings?cid=livingroom", nil)
	h.warningsHandler(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Equal(t, map[string]int{"magic-byte": 1}, counts)
}

func TestChunkBadRequests(t *testing.T) {
	h := newTestHandlers(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/ir/chunk", strings.NewReader("not json"))
	h.chunkHandler(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	code, _ := postChunk(t, h, chunkRequest{Durations: []int{1, 2}})
	assert.Equal(t, http.StatusBadRequest, code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/ir/chunk", nil)
	h.chunkHandler(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCollectorsAndRecordsHandlers(t *testing.T) {
	h := newTestHandlers(t)

	_, resp := postChunk(t, h, chunkRequest{CollectorID: "livingroom", FrameStart: true, Durations: tempFrameTimings(24, 0xA5)})
	require.Equal(t, "decoded", resp.Status)
	_, resp = postChunk(t, h, chunkRequest{CollectorID: "bedroom", FrameStart: true, Durations: tempFrameTimings(19, 0xA5)})
	require.Equal(t, "decoded", resp.Status)

	w := httptest.NewRecorder()
	h.collectorsHandler(w, httptest.NewRequest(http.MethodGet, "/ir/collectors", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var collectors []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &collectors))
	assert.Equal(t, []string{"bedroom", "livingroom"}, collectors)

	w = httptest.NewRecorder()
	h.recordsHandler(w, httptest.NewRequest(http.MethodGet, "/ir/records?cid=bedroom&type=temp", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var records []StoredRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "bedroom", records[0].CollectorID)
	assert.JSONEq(t, `{"type":"temp","temp":19}`, string(records[0].Fields))

	w = httptest.NewRecorder()
	h.recordsHandler(w, httptest.NewRequest(http.MethodGet, "/ir/records?limit=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamHandler(t *testing.T) {
	h := newTestHandlers(t)
	srv := httptest.NewServer(http.HandlerFunc(h.streamHandler))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Give the handler a moment to register its subscription before the
	// record arrives.
	require.Eventually(t, func() bool {
		h.notifier.mu.Lock()
		defer h.notifier.mu.Unlock()
		return len(h.notifier.subscribers) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, resp := postChunk(t, h, chunkRequest{CollectorID: "livingroom", FrameStart: true, Durations: tempFrameTimings(24, 0xA5)})
	require.Equal(t, "decoded", resp.Status)

	var ev recordEvent
	require.NoError(t, wsjson.Read(ctx, conn, &ev))
	assert.Equal(t, "livingroom", ev.CollectorID)
	assert.Equal(t, "temp", ev.FrameType)
	assert.JSONEq(t, `{"type":"temp","temp":24}`, string(ev.Fields))
}
