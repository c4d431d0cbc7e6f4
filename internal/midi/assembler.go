// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package midi

import (
	"fmt"
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/relabs-tech/head_tracker/internal/orientation"
)

// Axis identifies which head angle a controller carries.
type Axis int

const (
	AxisYaw Axis = iota
	AxisPitch
	AxisRoll
)

func (a Axis) String() string {
	switch a {
	case AxisYaw:
		return "yaw"
	case AxisPitch:
		return "pitch"
	case AxisRoll:
		return "roll"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// lsbOffset is the distance between a 14-bit controller's MSB and LSB
// numbers (MIDI 1.0: CC 0-31 paired with CC 32-63).
const lsbOffset = 32

// AxisMap assigns an MSB controller number (0-31) to each axis.
type AxisMap struct {
	Yaw   uint8
	Pitch uint8
	Roll  uint8
}

// DefaultAxisMap uses the general purpose controllers 16-18.
var DefaultAxisMap = AxisMap{Yaw: 16, Pitch: 17, Roll: 18}

// Validate checks that every controller is a valid MSB number and that
// no two axes share one.
func (m AxisMap) Validate() error {
	for _, cc := range []uint8{m.Yaw, m.Pitch, m.Roll} {
		if cc >= lsbOffset {
			return fmt.Errorf("controller %d is not a 14-bit MSB controller (0-31)", cc)
		}
	}
	if m.Yaw == m.Pitch || m.Yaw == m.Roll || m.Pitch == m.Roll {
		return fmt.Errorf("axis controllers must be distinct, got yaw=%d pitch=%d roll=%d", m.Yaw, m.Pitch, m.Roll)
	}
	return nil
}

func (m AxisMap) axisFor(msbController uint8) (Axis, bool) {
	switch msbController {
	case m.Yaw:
		return AxisYaw, true
	case m.Pitch:
		return AxisPitch, true
	case m.Roll:
		return AxisRoll, true
	}
	return 0, false
}

// AngleEvent is one decoded axis update.
type AngleEvent struct {
	Channel uint8
	Axis    Axis
	Angle   float32
}

// Assembler pairs MSB/LSB control changes into angle events. It keeps the
// last MSB per channel and axis, so an LSB-only update reuses it.
// An Assembler is not safe for concurrent use.
type Assembler struct {
	axes   AxisMap
	unit   AngleUnit
	msb    [16][3]uint8
	hasMSB [16][3]bool
	latest [3]float32
}

func NewAssembler(axes AxisMap, unit AngleUnit) *Assembler {
	return &Assembler{axes: axes, unit: unit}
}

// Feed consumes one message. It reports an event only when an LSB
// completes a pair; everything else is absorbed or ignored.
func (a *Assembler) Feed(msg gomidi.Message) (AngleEvent, bool) {
	var channel, controller, value uint8
	if !msg.GetControlChange(&channel, &controller, &value) {
		return AngleEvent{}, false
	}

	if axis, ok := a.axes.axisFor(controller); ok {
		a.msb[channel][axis] = value
		a.hasMSB[channel][axis] = true
		return AngleEvent{}, false
	}

	if controller < lsbOffset {
		return AngleEvent{}, false
	}
	axis, ok := a.axes.axisFor(controller - lsbOffset)
	if !ok || !a.hasMSB[channel][axis] {
		return AngleEvent{}, false
	}

	angle := DecodeAngle(a.msb[channel][axis], value, a.unit)
	a.latest[axis] = angle
	return AngleEvent{Channel: channel, Axis: axis, Angle: angle}, true
}

// Pose returns the latest angle of each axis, in degrees.
func (a *Assembler) Pose() orientation.Pose {
	conv := func(v float32) float64 {
		if a.unit == Radians {
			return float64(v) * 180 / math.Pi
		}
		return float64(v)
	}
	return orientation.Pose{
		Yaw:   conv(a.latest[AxisYaw]),
		Pitch: conv(a.latest[AxisPitch]),
		Roll:  conv(a.latest[AxisRoll]),
	}
}

// ControlChangePair encodes angle as the MSB and LSB control changes for
// controller, in send order.
func ControlChangePair(channel, controller uint8, angle float32, unit AngleUnit) [2]gomidi.Message {
	msb, lsb := EncodeAngle(angle, unit)
	return [2]gomidi.Message{
		gomidi.ControlChange(channel, controller, msb),
		gomidi.ControlChange(channel, controller+lsbOffset, lsb),
	}
}

// PoseMessages encodes a whole pose (degrees) as control change pairs for
// yaw, pitch and roll.
func PoseMessages(channel uint8, axes AxisMap, p orientation.Pose, unit AngleUnit) []gomidi.Message {
	conv := func(deg float64) float32 {
		if unit == Radians {
			return float32(deg * math.Pi / 180)
		}
		return float32(deg)
	}
	msgs := make([]gomidi.Message, 0, 6)
	for _, v := range []struct {
		cc    uint8
		angle float64
	}{{axes.Yaw, p.Yaw}, {axes.Pitch, p.Pitch}, {axes.Roll, p.Roll}} {
		pair := ControlChangePair(channel, v.cc, conv(v.angle), unit)
		msgs = append(msgs, pair[0], pair[1])
	}
	return msgs
}
