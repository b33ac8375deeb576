package greeir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPair(t *testing.T) {
	tests := []struct {
		name string
		hi   int
		lo   int
		want Symbol
	}{
		{"standard start nominal", 9000, -4500, SymStartStandard},
		{"standard start skewed", 8900, -4400, SymStartStandard},
		{"short start nominal", 6000, -3000, SymStartShort},
		{"zero nominal", 700, -500, SymZero},
		{"zero low edge", 601, -599, SymZero},
		{"zero high edge", 799, -401, SymZero},
		{"one nominal", 700, -1600, SymOne},
		{"one low edge", 700, -1699, SymOne},
		{"one high edge", 700, -1501, SymOne},
		{"space nominal", 700, -19800, SymSpace},
		{"space deep", 700, -25000, SymSpace},

		// Boundary values just outside each range.
		{"lead too narrow", 600, -500, SymInvalid},
		{"lead too wide", 800, -500, SymInvalid},
		{"zero low too shallow", 700, -400, SymInvalid},
		{"zero low too deep", 700, -600, SymInvalid},
		{"one low too shallow", 700, -1500, SymInvalid},
		{"one low too deep", 700, -1700, SymInvalid},
		{"space low too shallow", 700, -19000, SymInvalid},
		{"between zero and one", 700, -1000, SymInvalid},
		{"standard start too short", 8000, -4500, SymInvalid},
		{"standard start low too shallow", 9000, -4000, SymInvalid},
		{"short start hi too long", 7000, -3000, SymInvalid},
		{"short start low too deep", 6000, -3500, SymInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPair(tt.hi, tt.lo))
		})
	}
}

func TestIsBitLead(t *testing.T) {
	assert.True(t, IsBitLead(700))
	assert.True(t, IsBitLead(601))
	assert.True(t, IsBitLead(799))
	assert.False(t, IsBitLead(600))
	assert.False(t, IsBitLead(800))
	assert.False(t, IsBitLead(-700))
}
