// Package greeir decodes the infrared protocol of the GREE YAP1F family of
// air conditioner remote controls. The protocol is an NEC variant: standard
// frames carry 8 data bytes split into two 4-byte groups separated by an
// intra-frame space, short frames carry a 2-byte room temperature report.
//
// The pipeline turns raw receiver timings (microseconds of high/low signal)
// into typed control records:
//
//	timings -> Assembler -> EncodeCode -> ExtractPayload -> DecodeRecord
//
// Decoder ties the stages together for one receiver stream.
//
// NEC protocol reference: https://www.sbprojects.net/knowledge/ir/nec.php
package greeir

// Classification thresholds, in microseconds. These are empirical midpoints
// between the nominal pulse widths observed from the actual remote (the bit
// lead burst measures around 700us where standard NEC would be 562.5us).
// Tune here if a different receiver skews the timings.
const (
	startStandardMinHigh = 8000  // nominal 9000
	startStandardMaxLow  = -4000 // nominal -4500

	startShortMinHigh = 5000 // nominal 6000
	startShortMaxHigh = 7000
	startShortMinLow  = -3500 // nominal -3000
	startShortMaxLow  = -2500

	bitLeadMinHigh = 600 // nominal 700
	bitLeadMaxHigh = 800

	zeroMinLow = -600 // nominal -500
	zeroMaxLow = -400

	oneMinLow = -1700 // nominal -1600
	oneMaxLow = -1500

	spaceMaxLow = -19000 // nominal -19800
)

// IsStartStandard reports whether the pulse pair is the start burst of a
// standard 8-byte frame (9ms high, 4.5ms low).
func IsStartStandard(hi, lo int) bool {
	return hi > startStandardMinHigh && lo < startStandardMaxLow
}

// IsStartShort reports whether the pulse pair is the start burst of a short
// 2-byte temperature frame (6ms high, 3ms low).
func IsStartShort(hi, lo int) bool {
	return startShortMinHigh < hi && hi < startShortMaxHigh &&
		startShortMinLow < lo && lo < startShortMaxLow
}

// IsBitLead reports whether the high duration is a bit lead burst. The lead
// burst width is shared by zero, one and space encodings, and by the closing
// stop pulse.
func IsBitLead(hi int) bool {
	return bitLeadMinHigh < hi && hi < bitLeadMaxHigh
}

// IsZero reports whether the pulse pair encodes a zero bit (short low).
func IsZero(hi, lo int) bool {
	return IsBitLead(hi) && zeroMinLow < lo && lo < zeroMaxLow
}

// IsOne reports whether the pulse pair encodes a one bit (1.6ms low).
func IsOne(hi, lo int) bool {
	return IsBitLead(hi) && oneMinLow < lo && lo < oneMaxLow
}

// IsSpace reports whether the pulse pair is the intra-frame space separating
// the two 4-byte halves of a standard frame (19.8ms low).
func IsSpace(hi, lo int) bool {
	return IsBitLead(hi) && lo < spaceMaxLow
}

// classifyPair maps a high/low pulse pair to its symbol.
func classifyPair(hi, lo int) Symbol {
	switch {
	case IsStartStandard(hi, lo):
		return SymStartStandard
	case IsStartShort(hi, lo):
		return SymStartShort
	case IsZero(hi, lo):
		return SymZero
	case IsOne(hi, lo):
		return SymOne
	case IsSpace(hi, lo):
		return SymSpace
	default:
		return SymInvalid
	}
}
