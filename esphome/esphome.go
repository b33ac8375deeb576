// Package esphome extracts raw IR receiver timings from ESPHome log
// streams and drives them through a greeir decoder.
//
// The expected input is the dump of the remote_receiver component with raw
// decoding enabled. One received frame spans several log lines; only the
// first carries the "Received Raw" marker. The GREE remote inserts a
// 19-20ms intra-frame space mid-frame, so the receiver's idle threshold
// must be raised (25ms works) or the halves arrive as separate frames.
//
//	remote_receiver:
//	  pin:
//	    number: GPIO22
//	    inverted: true
//	    mode:
//	      input: true
//	      pullup: true
//	  idle: 25ms
//	  dump:
//	    - raw
//
// https://esphome.io/components/remote_receiver
package esphome

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/derktes/gree-remote-decoder/greeir"
)

// rawMarker tags remote_receiver raw dump lines in the log stream.
const rawMarker = "[I][remote.raw"

var numberPattern = regexp.MustCompile(`-?\d+`)

// Chunk is the timing content of one raw dump log line. Positive durations
// are microseconds of high signal, negative ones microseconds of low.
type Chunk struct {
	Durations []int
	// FrameStart is set on the first line of a frame (the one carrying the
	// "Received Raw" marker); continuation lines carry timings only.
	FrameStart bool
}

// ParseRawLine extracts the timings from one log line. ok is false for
// lines that are not part of a raw dump.
func ParseRawLine(line string) (Chunk, bool) {
	if !strings.Contains(line, rawMarker) {
		return Chunk{}, false
	}
	_, payload, found := strings.Cut(line, "]:")
	if !found {
		return Chunk{}, false
	}

	var chunk Chunk
	chunk.FrameStart = strings.HasPrefix(strings.TrimLeft(payload, " \t"), "Received")
	for _, tok := range numberPattern.FindAllString(payload, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		chunk.Durations = append(chunk.Durations, n)
	}
	return chunk, true
}

// Handler receives the outcomes of the per-line decode loop.
type Handler struct {
	// Chunk is called for every parsed raw dump chunk, before decoding.
	// Optional.
	Chunk func(Chunk)
	// Record is called for every successfully decoded frame.
	Record func(greeir.Record)
	// Warning is called for every advisory diagnostic. Optional.
	Warning func(greeir.Warning)
	// Reject is called when a frame is discarded as undecodable. Optional;
	// the stream continues either way.
	Reject func(error)
}

// Run scans log lines from r and feeds every raw dump chunk through dec,
// reporting outcomes to h. It returns the scanner error, if any; decode
// failures are per-frame and never end the run.
func Run(r io.Reader, dec *greeir.Decoder, h Handler) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		chunk, ok := ParseRawLine(scanner.Text())
		if !ok {
			continue
		}
		if h.Chunk != nil {
			h.Chunk(chunk)
		}
		rec, warns, err := dec.Feed(chunk.Durations, chunk.FrameStart)
		for _, w := range warns {
			if h.Warning != nil {
				h.Warning(w)
			}
		}
		if err != nil {
			if h.Reject != nil {
				h.Reject(err)
			}
			continue
		}
		if rec != nil && h.Record != nil {
			h.Record(rec)
		}
	}
	return scanner.Err()
}
