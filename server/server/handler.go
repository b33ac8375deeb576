package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/derktes/gree-remote-decoder/greeir"
)

// chunkRequest is one raw timing chunk posted by a collector. It mirrors
// the collector's chunkPublishRequest.
type chunkRequest struct {
	CollectorID string `json:"collectorId"`
	FrameStart  bool   `json:"frameStart"`
	Durations   []int  `json:"durations"`
}

// chunkResponse reports what became of an ingested chunk. A chunk either
// extends a partial frame ("accepted"), completes a frame that decodes to a
// record ("decoded"), or completes one that is discarded ("rejected").
type chunkResponse struct {
	Status string        `json:"status"`
	Record *StoredRecord `json:"record,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// handlers carries the shared server state. Each collector gets its own
// decoder: frame assembly is stateful per stream, and the decoderMu keeps
// chunk processing for a collector sequential.
type handlers struct {
	store    *recordStore
	notifier *notifier

	decoderMu sync.Mutex
	decoders  map[string]*greeir.Decoder
}

func newHandlers(store *recordStore) *handlers {
	return &handlers{
		store:    store,
		notifier: newNotifier(),
		decoders: make(map[string]*greeir.Decoder),
	}
}

func (h *handlers) chunkHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Print("Error reading from request body. ", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var chunk chunkRequest
	if err := json.Unmarshal(body, &chunk); err != nil {
		log.Print("Error unmarshaling. ", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if chunk.CollectorID == "" {
		http.Error(w, "collectorId required", http.StatusBadRequest)
		return
	}

	h.decoderMu.Lock()
	dec, ok := h.decoders[chunk.CollectorID]
	if !ok {
		log.Printf("Collector ID '%s' not seen before. Creating decoder.", chunk.CollectorID)
		dec = &greeir.Decoder{}
		h.decoders[chunk.CollectorID] = dec
	}
	rec, warns, err := dec.Feed(chunk.Durations, chunk.FrameStart)
	h.decoderMu.Unlock()

	for _, warn := range warns {
		log.Printf("Collector '%s' warning: %s", chunk.CollectorID, warn)
		if serr := h.store.insertWarning(chunk.CollectorID, warn); serr != nil {
			log.Print("Error storing warning. ", serr)
		}
	}

	if err != nil {
		var cerr *greeir.ContractError
		if errors.As(err, &cerr) {
			log.Printf("Collector '%s' contract violation: %v", chunk.CollectorID, cerr)
			http.Error(w, cerr.Error(), http.StatusInternalServerError)
			return
		}
		log.Printf("Collector '%s' frame rejected: %v", chunk.CollectorID, err)
		writeJSON(w, chunkResponse{Status: "rejected", Reason: err.Error()})
		return
	}
	if rec == nil {
		writeJSON(w, chunkResponse{Status: "accepted"})
		return
	}

	stored, err := h.store.insertRecord(chunk.CollectorID, rec)
	if err != nil {
		log.Print("Error storing record. ", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	h.notifier.publish(recordEvent{
		RecordID:    stored.ID,
		CollectorID: stored.CollectorID,
		FrameType:   stored.FrameType,
		Fields:      stored.Fields,
	})
	writeJSON(w, chunkResponse{Status: "decoded", Record: &stored})
}

func (h *handlers) collectorsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	collectors, err := h.store.listCollectors()
	if err != nil {
		log.Print(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, collectors)
}

func (h *handlers) recordsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	records, err := h.store.queryRecords(r.URL.Query().Get("cid"), r.URL.Query().Get("type"), limit)
	if err != nil {
		log.Print(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

func (h *handlers) warningsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cid := r.URL.Query().Get("cid")
	if cid == "" {
		http.Error(w, "cid required", http.StatusBadRequest)
		return
	}
	counts, err := h.store.countWarnings(cid)
	if err != nil {
		log.Print(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, counts)
}

func (h *handlers) streamHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Print(err)
		return
	}
	log.Printf("Accepted websocket request from %s", r.RemoteAddr)
	defer log.Printf("Closing websocket connection for %s", r.RemoteAddr)
	defer c.Close(websocket.StatusNormalClosure, "Handler exits")

	id, events := h.notifier.subscribe()
	defer h.notifier.unsubscribe(id)

	ctx := c.CloseRead(r.Context())
	for {
		select {
		case ev := <-events:
			if err := writeEvent(ctx, c, ev); err != nil {
				log.Print(err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(ctx context.Context, c *websocket.Conn, ev recordEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	return wsjson.Write(ctx, c, ev)
}

func writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Print(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.Header().Add("Access-Control-Allow-Origin", "*")
	w.Write(body)
}
