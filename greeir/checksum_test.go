package greeir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	payload := []byte{0x29, 0x05, 0x20, 0x50, 0x00, 0x80, 0x00, 0x00}
	// Low nibbles 9+5+0+0, high nibbles 0+8+0, plus 0x0A, mod 16.
	assert.Equal(t, byte(0x00), Checksum(payload))

	footer := []byte{0x00, 0x00, 0x00, 0xA0, 0x00, 0x00, 0x00, 0xA0}
	assert.Equal(t, byte(0x0A), Checksum(footer))
}

func TestChecksumDeterministic(t *testing.T) {
	payload := []byte{0x29, 0x05, 0x20, 0x50, 0x00, 0x80, 0x00, 0x00}
	first := Checksum(payload)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Checksum(payload))
	}
}

func TestChecksumSensitivity(t *testing.T) {
	base := []byte{0x29, 0x05, 0x20, 0x50, 0x00, 0x80, 0x00, 0x00}
	orig := Checksum(base)

	// Mutating the relevant nibble of any contributing byte changes the
	// sum: low nibbles for bytes 0..3, high nibbles for bytes 4..6.
	for i := 0; i < 4; i++ {
		mutated := append([]byte(nil), base...)
		mutated[i] ^= 0x01
		assert.NotEqual(t, orig, Checksum(mutated), "byte %d low nibble", i)
	}
	for i := 4; i < 7; i++ {
		mutated := append([]byte(nil), base...)
		mutated[i] ^= 0x10
		assert.NotEqual(t, orig, Checksum(mutated), "byte %d high nibble", i)
	}

	// The other nibbles do not contribute.
	for i := 0; i < 4; i++ {
		mutated := append([]byte(nil), base...)
		mutated[i] ^= 0x10
		assert.Equal(t, orig, Checksum(mutated), "byte %d high nibble", i)
	}
}

func TestVerifyChecksum(t *testing.T) {
	good := []byte{0x00, 0x00, 0x00, 0xA0, 0x00, 0x00, 0x00, 0xA0}
	_, ok := VerifyChecksum(good)
	assert.True(t, ok)

	bad := append([]byte(nil), good...)
	bad[7] = 0x50
	w, ok := VerifyChecksum(bad)
	assert.False(t, ok)
	assert.Equal(t, WarnChecksum, w.Kind)
	assert.Equal(t, bad, w.Payload)

	// Re-verifying yields the same result.
	_, ok = VerifyChecksum(bad)
	assert.False(t, ok)
}
