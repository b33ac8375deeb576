package greeir

import "fmt"

// WarningKind identifies a class of non-fatal decode anomaly.
type WarningKind int

const (
	// WarnExtraBits: a new frame start arrived while unconsumed durations
	// from an earlier, never-completed frame were still buffered.
	WarnExtraBits WarningKind = iota
	// WarnChecksum: the 4-bit checksum of a standard frame does not match
	// the recalculated value.
	WarnChecksum
	// WarnReservedBits: a documented-reserved bit holds an unexpected value.
	WarnReservedBits
	// WarnMagicByte: the fixed 0xA5 marker of a short frame is wrong.
	WarnMagicByte
	// WarnRedundantSwing: the explicit swing flag of a Basic frame agrees
	// with the swing state implied by the air guide positions and is
	// omitted from the rendered fields.
	WarnRedundantSwing
)

func (k WarningKind) String() string {
	switch k {
	case WarnExtraBits:
		return "extra-bits"
	case WarnChecksum:
		return "checksum-mismatch"
	case WarnReservedBits:
		return "reserved-bits"
	case WarnMagicByte:
		return "magic-byte"
	case WarnRedundantSwing:
		return "redundant-swing"
	default:
		return "unknown"
	}
}

// Warning is a structured, non-fatal diagnostic emitted while decoding.
// Decoding of the frame continues regardless; consumers may log, count or
// ignore warnings independently of the decode result.
type Warning struct {
	Kind   WarningKind
	Detail string
	// Durations holds the offending raw timings, when relevant.
	Durations []int
	// Payload holds the offending payload bytes, when relevant.
	Payload []byte
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Detail)
}

func warnf(kind WarningKind, format string, args ...any) Warning {
	return Warning{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
