package greeir

import (
	"errors"
	"fmt"
)

// Symbol is one code element of a frame.
type Symbol byte

const (
	SymStartStandard Symbol = 'S' // start burst of a standard frame
	SymStartShort    Symbol = 's' // start burst of a short frame
	SymZero          Symbol = '0' // zero data bit
	SymOne           Symbol = '1' // one data bit
	SymSpace         Symbol = '_' // intra-frame space
	SymStop          Symbol = '$' // closing stop pulse
	SymInvalid       Symbol = 'x' // unclassifiable pulse pair
)

// Code is the symbol sequence of one complete frame.
type Code []Symbol

func (c Code) String() string {
	b := make([]byte, len(c))
	for i, s := range c {
		b[i] = byte(s)
	}
	return string(b)
}

// Frame and code lengths for the two supported shapes. A standard frame is
// 69 pulse pairs plus the closing high pulse; its code is start + 64 data
// bits + 4 sync bits + stop. A short frame is 17 pairs plus the closing
// pulse; start + 16 data bits + stop.
const (
	StandardFrameLen = 139
	StandardCodeLen  = 70
	ShortFrameLen    = 35
	ShortCodeLen     = 18
)

// Frame-rejecting decode failures. The frame in hand is discarded; the
// pipeline stays usable for the next one.
var (
	ErrEvenFrame        = errors.New("even duration count")
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrBadStructure     = errors.New("invalid code structure")
	ErrBitCount         = errors.New("payload bit count not a multiple of 8")
	ErrUnknownFrameType = errors.New("unknown frame type")
	ErrPayloadLength    = errors.New("unsupported payload length")
)

// FrameError is a frame-rejecting failure carrying the offending raw frame
// and the partially built code for diagnostics. It wraps one of the sentinel
// errors above.
type FrameError struct {
	Err   error
	Frame []int
	Code  Code
}

func (e *FrameError) Error() string {
	if len(e.Code) > 0 {
		return fmt.Sprintf("%v: code %q, frame %v", e.Err, e.Code.String(), e.Frame)
	}
	return fmt.Sprintf("%v: frame %v", e.Err, e.Frame)
}

func (e *FrameError) Unwrap() error { return e.Err }

// EncodeCode converts a completed raw frame into its symbol code and
// validates the code structure. The final duration must be a solo high
// pulse: without it the length of the last low pulse, and so the stop
// symbol, cannot be determined.
func EncodeCode(frame []int) (Code, error) {
	if len(frame)%2 == 0 {
		return nil, &FrameError{Err: ErrEvenFrame, Frame: frame}
	}

	code := make(Code, 0, len(frame)/2+1)
	for i := 0; i+1 < len(frame); i += 2 {
		code = append(code, classifyPair(frame[i], frame[i+1]))
	}
	if IsBitLead(frame[len(frame)-1]) {
		code = append(code, SymStop)
	} else {
		code = append(code, SymInvalid)
	}

	spaces := 0
	for _, s := range code {
		if s == SymInvalid {
			return nil, &FrameError{Err: ErrInvalidSymbol, Frame: frame, Code: code}
		}
		if s == SymSpace {
			spaces++
		}
	}

	// Standard: start + 64 data bits + sync (exactly one space) + stop.
	// Short: start + 16 data bits + stop, no space.
	last := code[len(code)-1]
	switch code[0] {
	case SymStartStandard:
		if spaces == 1 && last == SymStop && len(code) == StandardCodeLen {
			return code, nil
		}
	case SymStartShort:
		if spaces == 0 && last == SymStop && len(code) == ShortCodeLen {
			return code, nil
		}
	}
	return nil, &FrameError{Err: ErrBadStructure, Frame: frame, Code: code}
}

// syncRun is the 4-symbol synchronization pattern separating the two 4-byte
// halves of a standard frame. The trailing space is the extra long low pulse.
var syncRun = Code{SymZero, SymOne, SymZero, SymSpace}

// ExtractPayload strips the framing symbols from a validated code and packs
// the remaining data bits into bytes. Bits arrive LSB first: the first
// transmitted bit of each group of 8 becomes bit 0 of the byte.
func ExtractPayload(code Code) ([]byte, error) {
	bits := code
	if len(bits) > 0 && (bits[0] == SymStartStandard || bits[0] == SymStartShort) {
		bits = bits[1:]
	}
	if len(bits) > 0 && bits[len(bits)-1] == SymStop {
		bits = bits[:len(bits)-1]
	}

	// Drop the sync run of a standard code. The run ends at the single
	// space symbol; if the three symbols before it are not 0-1-0 the run is
	// left in place and the bit count check below rejects the code.
	for i, s := range bits {
		if s != SymSpace {
			continue
		}
		if i >= 3 && bits[i-3] == SymZero && bits[i-2] == SymOne && bits[i-1] == SymZero {
			trimmed := make(Code, 0, len(bits)-len(syncRun))
			trimmed = append(trimmed, bits[:i-3]...)
			trimmed = append(trimmed, bits[i+1:]...)
			bits = trimmed
		}
		break
	}

	if len(bits)%8 != 0 {
		return nil, &FrameError{Err: ErrBitCount, Code: code}
	}

	payload := make([]byte, 0, len(bits)/8)
	for i := 0; i < len(bits); i += 8 {
		var b byte
		for j := 0; j < 8; j++ {
			if bits[i+j] == SymOne {
				b |= 1 << j
			}
		}
		payload = append(payload, b)
	}
	return payload, nil
}
