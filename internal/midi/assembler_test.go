// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package midi

import (
	"math"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/relabs-tech/head_tracker/internal/orientation"
)

func TestAssemblerEmitsOnLSB(t *testing.T) {
	a := NewAssembler(DefaultAxisMap, Degrees)

	if _, ok := a.Feed(gomidi.ControlChange(0, 16, 64)); ok {
		t.Fatal("MSB alone must not emit an event")
	}
	ev, ok := a.Feed(gomidi.ControlChange(0, 16+32, 0))
	if !ok {
		t.Fatal("LSB after MSB must emit an event")
	}
	if ev.Axis != AxisYaw || ev.Channel != 0 {
		t.Errorf("event = %+v, want yaw on channel 0", ev)
	}
	if want := DecodeAngle(64, 0, Degrees); ev.Angle != want {
		t.Errorf("angle = %v, want %v", ev.Angle, want)
	}
}

func TestAssemblerReusesMSB(t *testing.T) {
	a := NewAssembler(DefaultAxisMap, Radians)
	a.Feed(gomidi.ControlChange(3, 17, 10))
	a.Feed(gomidi.ControlChange(3, 17+32, 1))

	ev, ok := a.Feed(gomidi.ControlChange(3, 17+32, 5))
	if !ok {
		t.Fatal("LSB-only update must reuse the last MSB")
	}
	if want := DecodeAngle(10, 5, Radians); ev.Axis != AxisPitch || ev.Angle != want {
		t.Errorf("event = %+v, want pitch %v", ev, want)
	}
}

func TestAssemblerIgnoresUnrelated(t *testing.T) {
	a := NewAssembler(DefaultAxisMap, Degrees)
	msgs := []gomidi.Message{
		gomidi.NoteOn(0, 60, 100),
		gomidi.ControlChange(0, 7, 100),   // volume
		gomidi.ControlChange(0, 18+32, 3), // roll LSB without MSB
		gomidi.ControlChange(1, 20+32, 3), // unmapped LSB
		gomidi.ControlChange(0, 64, 127),  // sustain
		gomidi.ControlChange(2, 16, 1),    // MSB on another channel
		gomidi.ControlChange(5, 16+32, 1), // LSB on a channel without MSB
	}
	for _, m := range msgs {
		if ev, ok := a.Feed(m); ok {
			t.Errorf("Feed(%v) emitted %+v", m, ev)
		}
	}
}

func TestPoseMessagesRoundTrip(t *testing.T) {
	want := orientation.Pose{Yaw: 42.5, Pitch: -17.25, Roll: 88}
	for _, unit := range []AngleUnit{Degrees, Radians} {
		a := NewAssembler(DefaultAxisMap, unit)
		events := 0
		for _, m := range PoseMessages(9, DefaultAxisMap, want, unit) {
			if _, ok := a.Feed(m); ok {
				events++
			}
		}
		if events != 3 {
			t.Fatalf("%v: got %d events, want 3", unit, events)
		}

		// One quantization step in degrees.
		tol := float64(degreesPerStep)
		if unit == Radians {
			tol = float64(radiansPerStep) * 180 / math.Pi
		}
		got := a.Pose()
		if math.Abs(got.Yaw-want.Yaw) > tol || math.Abs(got.Pitch-want.Pitch) > tol || math.Abs(got.Roll-want.Roll) > tol {
			t.Errorf("%v: got %+v, want %+v (tol %.4f)", unit, got, want, tol)
		}
	}
}

func TestAxisMapValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       AxisMap
		wantErr bool
	}{
		{"default", DefaultAxisMap, false},
		{"low controllers", AxisMap{Yaw: 0, Pitch: 1, Roll: 31}, false},
		{"lsb range", AxisMap{Yaw: 32, Pitch: 1, Roll: 2}, true},
		{"duplicate", AxisMap{Yaw: 5, Pitch: 5, Roll: 6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
