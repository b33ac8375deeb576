package greeir

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordType tags the four frame variants the remote transmits.
type RecordType int

const (
	// TypeBasic actively changes the state of the air conditioner by
	// transmitting every setting at once.
	TypeBasic RecordType = iota
	// TypeTimer sets the delayed turn-on and turn-off times.
	TypeTimer
	// TypeFooter carries no payload; it signals the end of a command burst.
	TypeFooter
	// TypeTemp reports the room temperature sensed at the remote (the
	// "I FEEL" function), sent after keypresses and every 15 minutes.
	TypeTemp
)

func (t RecordType) String() string {
	switch t {
	case TypeBasic:
		return "basic"
	case TypeTimer:
		return "timer"
	case TypeFooter:
		return "footer"
	case TypeTemp:
		return "temp"
	default:
		return "unknown"
	}
}

// Field is one named value of a decoded record, in rendering order.
type Field struct {
	Name  string
	Value any
}

// Record is a decoded remote control frame: one of Basic, Timer, Footer or
// Temp. Fields returns the record's values as an ordered name/value list
// suitable for direct textual rendering.
type Record interface {
	Type() RecordType
	Fields() []Field
}

// Common holds the shared block of bytes 0..3 of the standard frames.
type Common struct {
	// Sleep enables silent operation with a slight breeze.
	Sleep bool
	// Swing reports continuous swinging in one or more directions. For
	// Basic frames see also SwingRedundant.
	Swing bool
	// Fan is the fan speed.
	Fan FanSpeed
	// On reports whether the unit is (to be) running.
	On bool
	// Mode is the operating mode.
	Mode Mode
	// TimerActive reports an armed on and/or off timer.
	TimerActive bool
	// TimerHours is the time until the closest timed event, rounded to the
	// nearest half hour.
	TimerHours float64
	// Temp is the target temperature in degrees Celsius. With the
	// Fahrenheit scale active it moves in 0.5C steps, otherwise 1.0C.
	Temp float64
	// XFan keeps the fan running after power-off to dry the evaporator
	// (Cool and Dry modes only).
	XFan bool
	// Health enables the air ionizer.
	Health bool
	// Light controls the LED display on the indoor unit.
	Light bool
	// Turbo boosts fan speed to heat or cool faster.
	Turbo bool
	// Fahrenheit selects display and input in degrees Fahrenheit.
	Fahrenheit bool
	// FreshAir opens the fresh air valve.
	FreshAir bool
}

func (c *Common) commonFields() []Field {
	return []Field{
		{"sleep", c.Sleep},
		{"swing", c.Swing},
		{"fan", c.Fan},
		{"on", c.On},
		{"mode", c.Mode},
		{"timer", c.TimerActive},
		{"timer_hours", c.TimerHours},
		{"temp", c.Temp},
		{"x_fan", c.XFan},
		{"health", c.Health},
		{"light", c.Light},
		{"turbo", c.Turbo},
		{"fahrenheit", c.Fahrenheit},
		{"fresh_air", c.FreshAir},
	}
}

// Basic is the full-state command frame.
type Basic struct {
	Common
	HGuide      HGuide
	VGuide      VGuide
	Wifi        bool
	IFeel       bool
	TempDisplay TempDisplay
	// EnergySave means economy in Cool mode and absence in Heat mode.
	EnergySave bool
	// SwingRedundant reports that the Swing flag agrees with the swing
	// state implied by the guide positions; the rendered fields omit swing
	// in that case, as the remote's flag adds no information.
	SwingRedundant bool
}

func (b *Basic) Type() RecordType { return TypeBasic }

func (b *Basic) Fields() []Field {
	fields := []Field{{"type", b.Type()}}
	for _, f := range b.commonFields() {
		if f.Name == "swing" && b.SwingRedundant {
			continue
		}
		fields = append(fields, f)
	}
	return append(fields,
		Field{"h_guide", b.HGuide},
		Field{"v_guide", b.VGuide},
		Field{"wifi", b.Wifi},
		Field{"ifeel", b.IFeel},
		Field{"temp_display", b.TempDisplay},
		Field{"energy_save", b.EnergySave},
	)
}

// Timer is the delayed on/off command frame.
type Timer struct {
	Common
	// OnMins and OffMins are minutes from now until the timed turn-on and
	// turn-off.
	OnMins  int
	OffMins int
	// Overlap is set when the user's on and off times fall too close
	// together; the remote then shifts the off time to keep at least 15
	// minutes between them.
	Overlap bool
	// OnSet and OffSet report which of the two timers are armed.
	OnSet  bool
	OffSet bool
}

func (t *Timer) Type() RecordType { return TypeTimer }

func (t *Timer) Fields() []Field {
	fields := []Field{{"type", t.Type()}}
	fields = append(fields, t.commonFields()...)
	return append(fields,
		Field{"on_mins", t.OnMins},
		Field{"overlap", t.Overlap},
		Field{"off_mins", t.OffMins},
		Field{"on_set", t.OnSet},
		Field{"off_set", t.OffSet},
	)
}

// Footer terminates a command burst and carries no data.
type Footer struct{}

func (f *Footer) Type() RecordType { return TypeFooter }

func (f *Footer) Fields() []Field { return []Field{{"type", f.Type()}} }

// Temp is the short room temperature report frame.
type Temp struct {
	// Temp is the temperature sensed at the remote, whole degrees Celsius.
	Temp int
}

func (t *Temp) Type() RecordType { return TypeTemp }

func (t *Temp) Fields() []Field {
	return []Field{{"type", t.Type()}, {"temp", t.Temp}}
}

// FormatRecord renders a record as "{key = value, ...}" in field order.
func FormatRecord(r Record) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(" = ")
		sb.WriteString(formatValue(f.Value))
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
