// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package midi decodes head-tracker angles carried as 14-bit MIDI
// controller values.
package midi

import (
	"fmt"
	"math"
	"strings"
)

// AngleUnit selects the scale applied by DecodeAngle.
type AngleUnit int

const (
	Degrees AngleUnit = iota
	Radians
)

// Scale factors per 14-bit step, as used by the tracker software.
// degreesPerStep is radiansPerStep in degrees, not 360/16384.
const (
	degreesPerStep float32 = 0.02797645484
	radiansPerStep float32 = 0.00048828125
)

const (
	valueRange = 1 << 14 // 16384
	halfRange  = 1 << 13 // 8192
)

func (u AngleUnit) String() string {
	switch u {
	case Degrees:
		return "degrees"
	case Radians:
		return "radians"
	default:
		return fmt.Sprintf("AngleUnit(%d)", int(u))
	}
}

// ParseAngleUnit accepts "degrees"/"deg" and "radians"/"rad", case-insensitive.
func ParseAngleUnit(s string) (AngleUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "degrees", "deg":
		return Degrees, nil
	case "radians", "rad":
		return Radians, nil
	default:
		return 0, fmt.Errorf("unknown angle unit %q (want degrees or radians)", s)
	}
}

// Scale returns the size of one 14-bit step in u.
func (u AngleUnit) Scale() float32 {
	if u == Radians {
		return radiansPerStep
	}
	return degreesPerStep
}

// Value14 combines two data bytes as 128*msb + lsb. Bytes are not masked
// to 7 bits.
func Value14(msb, lsb byte) int {
	return 128*int(msb) + int(lsb)
}

// Centered re-centres Value14 onto -8192..8191.
func Centered(msb, lsb byte) int {
	v := Value14(msb, lsb)
	if v >= halfRange {
		v -= valueRange
	}
	return v
}

// DecodeAngle converts a 14-bit controller pair into a signed angle.
// Arithmetic is single precision to stay bit-compatible with the tracker
// software.
func DecodeAngle(msb, lsb byte, unit AngleUnit) float32 {
	return float32(Centered(msb, lsb)) * unit.Scale()
}

// EncodeAngle quantizes angle into a 14-bit controller pair. Angles
// beyond the representable range are clamped.
func EncodeAngle(angle float32, unit AngleUnit) (msb, lsb byte) {
	v := int(math.Round(float64(angle / unit.Scale())))
	if v < -halfRange {
		v = -halfRange
	}
	if v > halfRange-1 {
		v = halfRange - 1
	}
	if v < 0 {
		v += valueRange
	}
	return byte(v >> 7), byte(v & 0x7f)
}
