package greeir

// Checksum recalculates the 4-bit checksum of an 8-byte payload: the low
// nibbles of bytes 0..3 plus the high nibbles of bytes 4..6 plus 0x0A,
// modulo 16. Byte 7 carries the received checksum in its high nibble and is
// not part of the sum.
//
// The ESPHome gree component computes this differently (it skips byte 4 and
// folds byte 7 in twice); the formula here matches what the actual remote
// transmits.
func Checksum(payload []byte) byte {
	sum := payload[0]&0x0F + payload[1]&0x0F + payload[2]&0x0F + payload[3]&0x0F +
		payload[4]>>4 + payload[5]>>4 + payload[6]>>4 + 0x0A
	return sum & 0x0F
}

// VerifyChecksum compares the received checksum of an 8-byte payload with
// the recalculated value. A mismatch only signals suspected transmission
// corruption; it is reported as a warning and never aborts decoding.
func VerifyChecksum(payload []byte) (Warning, bool) {
	recv := payload[7] >> 4
	calc := Checksum(payload)
	if recv == calc {
		return Warning{}, true
	}
	w := warnf(WarnChecksum, "received 0x%X, calculated 0x%X", recv, calc)
	w.Payload = append([]byte(nil), payload...)
	return w, false
}
