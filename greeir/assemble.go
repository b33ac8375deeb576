package greeir

// Assembler accumulates raw receiver timings into complete frames. The
// receiver log splits one frame's durations across several records, so the
// buffer persists between calls; frame boundaries depend only on the start
// pair classification and the accumulated length, never on chunk boundaries.
//
// At most one frame is in flight: the single buffer is owned by the caller's
// pipeline and mutated only through Feed.
type Assembler struct {
	buf []int
}

// Feed appends a chunk of durations to the in-progress frame and returns the
// completed raw frame once a recognized length is reached, or nil if more
// data is expected. frameStart marks the chunk as the beginning of a new
// frame; if durations from a never-completed frame are still buffered they
// are discarded with an extra-bits warning.
func (a *Assembler) Feed(durations []int, frameStart bool) ([]int, []Warning) {
	var warns []Warning
	if frameStart {
		if len(a.buf) > 0 {
			w := warnf(WarnExtraBits, "%d leftover durations from incomplete frame", len(a.buf))
			w.Durations = append([]int(nil), a.buf...)
			warns = append(warns, w)
		}
		a.buf = append(a.buf[:0], durations...)
	} else {
		a.buf = append(a.buf, durations...)
	}

	if len(a.buf) < 2 {
		return nil, warns
	}
	n := 0
	switch {
	case IsStartStandard(a.buf[0], a.buf[1]) && len(a.buf) >= StandardFrameLen:
		n = StandardFrameLen
	case IsStartShort(a.buf[0], a.buf[1]) && len(a.buf) >= ShortFrameLen:
		n = ShortFrameLen
	default:
		return nil, warns
	}

	frame := append([]int(nil), a.buf[:n]...)
	a.buf = a.buf[:0]
	return frame, warns
}

// Pending returns the number of buffered durations awaiting frame
// completion.
func (a *Assembler) Pending() int { return len(a.buf) }

// Reset discards any buffered durations.
func (a *Assembler) Reset() { a.buf = a.buf[:0] }
