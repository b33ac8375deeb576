package greeir

import "fmt"

// Frame type discriminator, high nibble of byte 3 of a standard payload.
const (
	typeBasic  = 0x5
	typeTimer  = 0x6
	typeFooter = 0xA
)

// DecodeRecord decodes a byte payload into a control record. 8-byte
// payloads are checksum-verified and dispatched on the type nibble of byte
// 3; a 2-byte payload is always a temperature report. Warnings are advisory
// and never abort an otherwise well-formed frame; the returned error is
// non-nil only for unknown type nibbles, unsupported payload lengths, or a
// bit-layout contract violation.
func DecodeRecord(payload []byte) (Record, []Warning, error) {
	switch len(payload) {
	case 8:
		var warns []Warning
		if w, ok := VerifyChecksum(payload); !ok {
			warns = append(warns, w)
		}
		var (
			rec    Record
			fwarns []Warning
			err    error
		)
		switch payload[3] >> 4 {
		case typeBasic:
			rec, fwarns, err = decodeBasic(payload)
		case typeTimer:
			rec, fwarns, err = decodeTimer(payload)
		case typeFooter:
			rec, fwarns = decodeFooter(payload)
		default:
			return nil, warns, fmt.Errorf("%w: type nibble 0x%X", ErrUnknownFrameType, payload[3]>>4)
		}
		warns = append(warns, fwarns...)
		if err != nil {
			return nil, warns, err
		}
		return rec, warns, nil
	case 2:
		rec, warns := decodeTemp(payload)
		return rec, warns, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrPayloadLength, len(payload))
	}
}

// decodeCommon decodes the shared block of bytes 0..3 carried by every
// standard frame variant.
func decodeCommon(p []byte) (Common, []Warning, error) {
	var warns []Warning
	if p[3]&0x02 != 0 {
		warns = append(warns, warnf(WarnReservedBits, "nonzero 3[1] func2-unused 0x%02X", p[3]&0x02>>1))
	}

	fan, err := parseFanSpeed(p[0] & 0x30 >> 4)
	if err != nil {
		return Common{}, warns, err
	}
	mode, err := parseMode(p[0] & 0x07)
	if err != nil {
		return Common{}, warns, err
	}

	// The temperature scale shifts by half a degree with the Fahrenheit
	// flag; Fahrenheit values land between the Celsius steps.
	base := 16.0
	if p[3]&0x04 != 0 {
		base = 16.5
	}

	return Common{
		Sleep: p[0]&0x80 != 0,
		Swing: p[0]&0x40 != 0,
		Fan:   fan,
		On:    p[0]&0x08 != 0,
		Mode:  mode,

		TimerActive: p[1]&0x80 != 0,
		TimerHours:  float64(p[1]&0x60>>5)*10 + float64(p[2]&0x0F) + float64(p[1]&0x10>>4)*0.5,
		Temp:        float64(p[1]&0x0F) + base,

		XFan:   p[2]&0x80 != 0,
		Health: p[2]&0x40 != 0,
		Light:  p[2]&0x20 != 0,
		Turbo:  p[2]&0x10 != 0,

		Fahrenheit: p[3]&0x08 != 0,
		FreshAir:   p[3]&0x01 != 0,
	}, warns, nil
}

func decodeBasic(p []byte) (Record, []Warning, error) {
	common, warns, err := decodeCommon(p)
	if err != nil {
		return nil, warns, err
	}
	if p[5]&0x80 == 0 {
		warns = append(warns, warnf(WarnReservedBits, "zero 5[7] func3-lead"))
	}
	if p[5]&0x38 != 0 {
		warns = append(warns, warnf(WarnReservedBits, "nonzero 5[5:3] func3-unused 0x%02X", p[5]&0x38>>3))
	}
	if p[6] != 0 {
		warns = append(warns, warnf(WarnReservedBits, "nonzero 6[7:0] unused 0x%02X", p[6]))
	}
	if p[7]&0x0B != 0 {
		warns = append(warns, warnf(WarnReservedBits, "nonzero 7[3,1:0] control-unused 0x%02X", p[7]&0x0B))
	}

	hGuide, err := parseHGuide(p[4] >> 4)
	if err != nil {
		return nil, warns, err
	}
	vGuide, err := parseVGuide(p[4] & 0x0F)
	if err != nil {
		return nil, warns, err
	}
	tempDisplay, err := parseTempDisplay(p[5] & 0x03)
	if err != nil {
		return nil, warns, err
	}

	rec := &Basic{
		Common:      common,
		HGuide:      hGuide,
		VGuide:      vGuide,
		Wifi:        p[5]&0x40 != 0,
		IFeel:       p[5]&0x04 != 0,
		TempDisplay: tempDisplay,
		EnergySave:  p[7]&0x04 != 0,
	}
	if (hGuide.Swinging() || vGuide.Swinging()) == rec.Swing {
		rec.SwingRedundant = true
		warns = append(warns, warnf(WarnRedundantSwing, "swing flag %t implied by guides %s/%s", rec.Swing, hGuide, vGuide))
	}
	return rec, warns, nil
}

func decodeTimer(p []byte) (Record, []Warning, error) {
	common, warns, err := decodeCommon(p)
	if err != nil {
		return nil, warns, err
	}
	if p[5]&0x08 == 0 {
		warns = append(warns, warnf(WarnReservedBits, "zero 5[3] on-lead"))
	}
	if p[7]&0x0C != 0 {
		warns = append(warns, warnf(WarnReservedBits, "nonzero 7[3:2] control-unused 0x%02X", p[7]&0x0C>>2))
	}

	return &Timer{
		Common: common,
		// 12-bit minute counters: the turn-on delay spans byte 4 and the
		// low 3 bits of byte 5, the turn-off delay byte 6 and the mid
		// nibble of byte 5.
		OnMins:  int(p[5]&0x07)<<8 | int(p[4]),
		OffMins: int(p[6])<<4 | int(p[5]&0x70)>>4,
		Overlap: p[5]&0x80 != 0,
		OnSet:   p[7]&0x02 != 0,
		OffSet:  p[7]&0x01 != 0,
	}, warns, nil
}

func decodeFooter(p []byte) (Record, []Warning) {
	var warns []Warning
	// Everything apart from the type nibble and the checksum must be zero.
	if p[0] != 0 || p[1] != 0 || p[2] != 0 || p[4] != 0 || p[5] != 0 || p[6] != 0 {
		w := warnf(WarnReservedBits, "nonzero footer unused bytes")
		w.Payload = append([]byte(nil), p...)
		warns = append(warns, w)
	}
	if p[3]&0x0F != 0 || p[7]&0x0F != 0 {
		w := warnf(WarnReservedBits, "nonzero footer unused bits")
		w.Payload = append([]byte(nil), p...)
		warns = append(warns, w)
	}
	return &Footer{}, warns
}

// tempMagic is the fixed marker in byte 1 of a short frame, transmitted in
// place of a checksum.
const tempMagic = 0xA5

func decodeTemp(p []byte) (Record, []Warning) {
	var warns []Warning
	if p[1] != tempMagic {
		w := warnf(WarnMagicByte, "byte 1 is 0x%02X, want 0x%02X", p[1], tempMagic)
		w.Payload = append([]byte(nil), p...)
		warns = append(warns, w)
	}
	return &Temp{Temp: int(p[0])}, warns
}

// Decoder runs the full pipeline for one receiver stream, holding the
// cross-chunk assembly state. Not safe for concurrent use; each stream gets
// its own Decoder.
type Decoder struct {
	asm Assembler
}

// Feed pushes one chunk of raw durations through the pipeline. It returns a
// nil Record while a frame is still accumulating. A non-nil error rejects
// the current frame only; the Decoder stays usable for the next chunk.
func (d *Decoder) Feed(durations []int, frameStart bool) (Record, []Warning, error) {
	frame, warns := d.asm.Feed(durations, frameStart)
	if frame == nil {
		return nil, warns, nil
	}
	code, err := EncodeCode(frame)
	if err != nil {
		return nil, warns, err
	}
	payload, err := ExtractPayload(code)
	if err != nil {
		return nil, warns, err
	}
	rec, dwarns, err := DecodeRecord(payload)
	warns = append(warns, dwarns...)
	return rec, warns, err
}
