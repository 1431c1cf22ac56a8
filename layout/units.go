package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for percentage and pixel lengths.

// Unit represents the original unit of a length value as written by the author.
type Unit int

const (
	UnitNone    Unit = iota // unit-less numbers like opacity
	UnitPX                  // pixels
	UnitPercent             // percentage of a reference dimension
)

// Conversion constants between pt and mm. The canvas backend rasterises at
// one pixel per millimetre, so these also convert px to font points.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// JSON returns the debug representation of l.
func (l Length) JSON() *RawLengthJSON {
	return &RawLengthJSON{Value: l.Value, Unit: UnitToString(l.Unit)}
}

// Percent resolves a percentage of base.
func Percent(value, base float64) float64 {
	return value * base / 100
}

// ParseRawLengthStr parses a length string such as "8%", "2px" or "0.6"
// preserving its unit. Unparseable input yields a zero unit-less length.
func ParseRawLengthStr(value string) Length {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return Length{Value: 0, Unit: UnitNone}
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"%", UnitPercent}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{Value: 0, Unit: UnitNone}
	}
	return Length{Value: f, Unit: unit}
}
