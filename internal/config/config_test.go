// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/relabs-tech/head_tracker/internal/midi"
	"github.com/relabs-tech/head_tracker/internal/oscmsg"
)

const sampleConfig = `
# head tracker relay
MQTT_BROKER=tcp://localhost:1883
TOPIC_POSE = tracker/pose
TRACKER_SAMPLE_INTERVAL=20

OSC_HOST=192.168.1.20
OSC_PORT=9000
OSC_FORMAT=ypr
OSC_ADDRESS_YPR=/head/ypr

MIDI_ANGLE_UNIT=radians
MIDI_CHANNEL=2
MIDI_CC_YAW=1
MIDI_CC_PITCH=2
MIDI_CC_ROLL=3
`

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker = %q", cfg.MQTTBroker)
	}
	if cfg.TrackerSampleInterval != 20 {
		t.Errorf("TrackerSampleInterval = %d, want 20", cfg.TrackerSampleInterval)
	}
	if cfg.OSCFormat != oscmsg.FormatYPR || cfg.OSCAddressYPR != "/head/ypr" {
		t.Errorf("OSC format/address = %v %q", cfg.OSCFormat, cfg.OSCAddressYPR)
	}
	if got := cfg.OSCTarget(); got != "192.168.1.20:9000" {
		t.Errorf("OSCTarget = %q", got)
	}
	if cfg.MIDIAngleUnit != midi.Radians || cfg.MIDIChannel != 2 {
		t.Errorf("MIDI unit/channel = %v %d", cfg.MIDIAngleUnit, cfg.MIDIChannel)
	}
	if want := (midi.AxisMap{Yaw: 1, Pitch: 2, Roll: 3}); cfg.MIDIAxes != want {
		t.Errorf("MIDIAxes = %+v, want %+v", cfg.MIDIAxes, want)
	}

	// Untouched keys keep their defaults.
	def := Default()
	if cfg.OSCAddressPan != def.OSCAddressPan || cfg.WebServerPort != def.WebServerPort {
		t.Errorf("defaults lost: pan=%q web=%d", cfg.OSCAddressPan, cfg.WebServerPort)
	}
	if b := cfg.OSCBuilder(); b.Format != oscmsg.FormatYPR || b.YPRAddress != "/head/ypr" {
		t.Errorf("OSCBuilder = %+v", b)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("MQTT_BROKER=tcp://broker:1883\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.OSCPort != 59000 || cfg.OSCHost != "127.0.0.1" {
		t.Errorf("OSC target defaults = %s", cfg.OSCTarget())
	}
	if cfg.OSCFormat != oscmsg.FormatPan || cfg.OSCAddressPan != "/WONDER/tracker/move/pan" {
		t.Errorf("OSC pan defaults = %v %q", cfg.OSCFormat, cfg.OSCAddressPan)
	}
	if cfg.MIDIAngleUnit != midi.Degrees || cfg.MIDIAxes != midi.DefaultAxisMap {
		t.Errorf("MIDI defaults = %v %+v", cfg.MIDIAngleUnit, cfg.MIDIAxes)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"missing broker", "TOPIC_POSE=a\n", "MQTT_BROKER is required"},
		{"no equals", "MQTT_BROKER\n", "invalid config line 1"},
		{"unknown key", "MQTT_BROKER=x\nFOO=bar\n", `unknown config key: "FOO"`},
		{"bad interval", "MQTT_BROKER=x\nTRACKER_SAMPLE_INTERVAL=abc\n", "config line 2"},
		{"zero interval", "MQTT_BROKER=x\nTRACKER_SAMPLE_INTERVAL=0\n", "must be positive"},
		{"port range", "MQTT_BROKER=x\nOSC_PORT=70000\n", "OSC_PORT must be 1-65535"},
		{"bad format", "MQTT_BROKER=x\nOSC_FORMAT=quat\n", "invalid OSC_FORMAT"},
		{"bad address", "MQTT_BROKER=x\nOSC_ADDRESS_PAN=pan\n", "must start with '/'"},
		{"bad unit", "MQTT_BROKER=x\nMIDI_ANGLE_UNIT=turns\n", "invalid MIDI_ANGLE_UNIT"},
		{"channel range", "MQTT_BROKER=x\nMIDI_CHANNEL=16\n", "MIDI_CHANNEL must be 0-15"},
		{"lsb controller", "MQTT_BROKER=x\nMIDI_CC_YAW=40\n", "MIDI_CC_YAW must be 0-31"},
		{"shared controller", "MQTT_BROKER=x\nMIDI_CC_YAW=17\n", "must be distinct"},
		{"same topics", "MQTT_BROKER=x\nTOPIC_POSE_MIDI=tracker/pose\n", "must differ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load missing file: err = %v", err)
	}
}

func TestInitGlobal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "head_tracker_config.txt")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitGlobal(path); err != nil {
		t.Fatalf("InitGlobal: %v", err)
	}
	cfg := Get()
	if cfg == nil || cfg.TrackerSampleInterval != 20 {
		t.Fatalf("Get() = %+v", cfg)
	}
	// Second call is a no-op.
	if err := InitGlobal("does-not-exist.txt"); err != nil {
		t.Errorf("second InitGlobal: %v", err)
	}
	if Get() != cfg {
		t.Error("Get() changed after second InitGlobal")
	}
}
