package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/derktes/gree-remote-decoder/esphome"
)

// chunkPublishRequest is one raw timing chunk published to the server. The
// server runs the chunks of each collector through its own decoder, so the
// frameStart flag must survive the trip.
type chunkPublishRequest struct {
	CollectorID string `json:"collectorId"`
	FrameStart  bool   `json:"frameStart"`
	Durations   []int  `json:"durations"`
}

type publishClient struct {
	serverURL string
}

func newPublishClient(serverHost string, serverPort int) (*publishClient, error) {
	serverURLString := fmt.Sprintf("http://%s:%d/ir/chunk", serverHost, serverPort)
	if _, err := url.Parse(serverURLString); err != nil {
		return nil, err
	}
	return &publishClient{serverURLString}, nil
}

func (pc *publishClient) publishChunk(cid string, chunk esphome.Chunk) {
	body, err := json.Marshal(chunkPublishRequest{
		CollectorID: cid,
		FrameStart:  chunk.FrameStart,
		Durations:   chunk.Durations,
	})
	if err != nil {
		log.Print("Error marshaling chunk. ", err)
		return
	}
	response, err := http.Post(pc.serverURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Print(err)
		return
	}
	response.Body.Close()
	if response.StatusCode != http.StatusOK {
		log.Printf("Publish failed with status %v", response.StatusCode)
	}
}

// drain publishes the chunks one at a time, in channel order. The server
// reassembles each collector's chunks into frames through a stateful
// decoder, so fragments of one frame must arrive in the order the receiver
// emitted them; concurrent posts could land reordered.
func (pc *publishClient) drain(cid string, chunks <-chan esphome.Chunk) {
	for chunk := range chunks {
		pc.publishChunk(cid, chunk)
	}
}
