package greeir

import "fmt"

// ContractError reports an enumerated field whose raw bit value falls
// outside its declared set. Given the structural validation upstream this
// indicates wrong bit-layout assumptions, not transmission noise, so it is
// never coerced to a default variant.
type ContractError struct {
	Field string
	Value byte
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("value 0x%X outside the %s set", e.Value, e.Field)
}

// Mode is the operating mode of the indoor unit.
type Mode int

const (
	ModeAuto Mode = 0
	ModeCool Mode = 1
	ModeDry  Mode = 2
	ModeFan  Mode = 3
	ModeHeat Mode = 4
)

var modeNames = map[Mode]string{
	ModeAuto: "Auto",
	ModeCool: "Cool",
	ModeDry:  "Dry",
	ModeFan:  "Fan",
	ModeHeat: "Heat",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func parseMode(v byte) (Mode, error) {
	if _, ok := modeNames[Mode(v)]; !ok {
		return 0, &ContractError{Field: "Mode", Value: v}
	}
	return Mode(v), nil
}

// FanSpeed is the fan speed setting.
type FanSpeed int

const (
	FanAuto FanSpeed = 0
	FanLow  FanSpeed = 1
	FanMed  FanSpeed = 2
	FanHigh FanSpeed = 3
)

var fanNames = map[FanSpeed]string{
	FanAuto: "Auto",
	FanLow:  "Low",
	FanMed:  "Med",
	FanHigh: "High",
}

func (f FanSpeed) String() string {
	if name, ok := fanNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Fan(%d)", int(f))
}

func parseFanSpeed(v byte) (FanSpeed, error) {
	if _, ok := fanNames[FanSpeed(v)]; !ok {
		return 0, &ContractError{Field: "Fan", Value: v}
	}
	return FanSpeed(v), nil
}

// HGuide is the horizontal (left-right) air guide state.
type HGuide int

const (
	// HGuideClosed keeps the guide stationary as it was last set.
	HGuideClosed HGuide = 0

	// Stationary positions.
	HGuideLeft     HGuide = 2
	HGuideMidLeft  HGuide = 3
	HGuideMid      HGuide = 4
	HGuideMidRight HGuide = 5
	HGuideRight    HGuide = 6
	// HGuideOut blows away from centre.
	HGuideOut HGuide = 12

	// Continuous swinging.
	HGuideSwingLeftRight HGuide = 1
	HGuideSwingInOut     HGuide = 13
)

var hGuideNames = map[HGuide]string{
	HGuideClosed:         "Closed",
	HGuideLeft:           "Left",
	HGuideMidLeft:        "MidLeft",
	HGuideMid:            "Mid",
	HGuideMidRight:       "MidRight",
	HGuideRight:          "Right",
	HGuideOut:            "Out",
	HGuideSwingLeftRight: "SwingLeftRight",
	HGuideSwingInOut:     "SwingInOut",
}

func (g HGuide) String() string {
	if name, ok := hGuideNames[g]; ok {
		return name
	}
	return fmt.Sprintf("HGuide(%d)", int(g))
}

// Swinging reports whether the guide is in a continuous swing state.
func (g HGuide) Swinging() bool {
	return g == HGuideSwingLeftRight || g == HGuideSwingInOut
}

func parseHGuide(v byte) (HGuide, error) {
	if _, ok := hGuideNames[HGuide(v)]; !ok {
		return 0, &ContractError{Field: "HGuide", Value: v}
	}
	return HGuide(v), nil
}

// VGuide is the vertical (up-down) air guide state.
type VGuide int

const (
	// VGuideClosed keeps the guide stationary as it was last set.
	VGuideClosed VGuide = 0

	// Stationary positions.
	VGuideUp      VGuide = 2
	VGuideMidUp   VGuide = 3
	VGuideMid     VGuide = 4
	VGuideMidDown VGuide = 5
	VGuideDown    VGuide = 6

	// VGuideSwingUpDown swings over the full range, the others over the
	// named half of it.
	VGuideSwingUpDown VGuide = 1
	VGuideSwingDown   VGuide = 7
	VGuideSwingMid    VGuide = 9
	VGuideSwingUp     VGuide = 11
)

var vGuideNames = map[VGuide]string{
	VGuideClosed:      "Closed",
	VGuideUp:          "Up",
	VGuideMidUp:       "MidUp",
	VGuideMid:         "Mid",
	VGuideMidDown:     "MidDown",
	VGuideDown:        "Down",
	VGuideSwingUpDown: "SwingUpDown",
	VGuideSwingDown:   "SwingDown",
	VGuideSwingMid:    "SwingMid",
	VGuideSwingUp:     "SwingUp",
}

func (g VGuide) String() string {
	if name, ok := vGuideNames[g]; ok {
		return name
	}
	return fmt.Sprintf("VGuide(%d)", int(g))
}

// Swinging reports whether the guide is in a continuous swing state.
func (g VGuide) Swinging() bool {
	switch g {
	case VGuideSwingUpDown, VGuideSwingDown, VGuideSwingMid, VGuideSwingUp:
		return true
	}
	return false
}

func parseVGuide(v byte) (VGuide, error) {
	if _, ok := vGuideNames[VGuide(v)]; !ok {
		return 0, &ContractError{Field: "VGuide", Value: v}
	}
	return VGuide(v), nil
}

// TempDisplay selects which temperature the indoor unit displays.
type TempDisplay int

const (
	TempDisplayDefault TempDisplay = 0
	TempDisplaySet     TempDisplay = 1
	TempDisplayRoom    TempDisplay = 2
	TempDisplayOutdoor TempDisplay = 3
)

var tempDisplayNames = map[TempDisplay]string{
	TempDisplayDefault: "Default",
	TempDisplaySet:     "Set",
	TempDisplayRoom:    "Room",
	TempDisplayOutdoor: "Outdoor",
}

func (t TempDisplay) String() string {
	if name, ok := tempDisplayNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TempDisplay(%d)", int(t))
}

func parseTempDisplay(v byte) (TempDisplay, error) {
	if _, ok := tempDisplayNames[TempDisplay(v)]; !ok {
		return 0, &ContractError{Field: "TempDisplay", Value: v}
	}
	return TempDisplay(v), nil
}
