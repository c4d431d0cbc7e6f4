// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/head_tracker/internal/midi"
	"github.com/relabs-tech/head_tracker/internal/oscmsg"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string

	// Topics
	TopicPose     string
	TopicPoseMIDI string // empty disables the MIDI-decoded pose

	// Tracker
	TrackerSampleInterval int // milliseconds

	// Web Server
	WebServerPort int

	// OSC (message layout only; OSCHost/OSCPort label the preview)
	OSCHost       string
	OSCPort       int
	OSCFormat     oscmsg.Format
	OSCAddressPan string
	OSCAddressYPR string

	// MIDI 14-bit controllers
	MIDIAngleUnit midi.AngleUnit
	MIDIChannel   uint8
	MIDIAxes      midi.AxisMap
}

// Package-level unexported variables for the singleton:
//   - globalConfig is only set by InitGlobal and read through Get.
//   - configOnce makes InitGlobal idempotent.
//   - configMu lets many readers share Get without blocking each other.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the values used for keys missing from the file.
func Default() *Config {
	return &Config{
		MQTTClientIDProducer:  "head-tracker-producer",
		MQTTClientIDConsole:   "head-tracker-console",
		MQTTClientIDWeb:       "head-tracker-web",
		TopicPose:             "tracker/pose",
		TopicPoseMIDI:         "tracker/pose/midi",
		TrackerSampleInterval: 17, // ~60Hz
		WebServerPort:         8080,
		OSCHost:               "127.0.0.1",
		OSCPort:               59000,
		OSCFormat:             oscmsg.FormatPan,
		OSCAddressPan:         oscmsg.DefaultPanAddress,
		OSCAddressYPR:         oscmsg.DefaultYPRAddress,
		MIDIAngleUnit:         midi.Degrees,
		MIDIAxes:              midi.DefaultAxisMap,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines on top of Default().
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_POSE":
		c.TopicPose = value
	case "TOPIC_POSE_MIDI":
		c.TopicPoseMIDI = value

	// Tracker
	case "TRACKER_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TRACKER_SAMPLE_INTERVAL %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("TRACKER_SAMPLE_INTERVAL must be positive, got %d", interval)
		}
		c.TrackerSampleInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := parsePort("WEB_SERVER_PORT", value)
		if err != nil {
			return err
		}
		c.WebServerPort = port

	// OSC
	case "OSC_HOST":
		c.OSCHost = value
	case "OSC_PORT":
		port, err := parsePort("OSC_PORT", value)
		if err != nil {
			return err
		}
		c.OSCPort = port
	case "OSC_FORMAT":
		f, err := oscmsg.ParseFormat(value)
		if err != nil {
			return fmt.Errorf("invalid OSC_FORMAT: %w", err)
		}
		c.OSCFormat = f
	case "OSC_ADDRESS_PAN":
		if !strings.HasPrefix(value, "/") {
			return fmt.Errorf("OSC_ADDRESS_PAN must start with '/', got %q", value)
		}
		c.OSCAddressPan = value
	case "OSC_ADDRESS_YPR":
		if !strings.HasPrefix(value, "/") {
			return fmt.Errorf("OSC_ADDRESS_YPR must start with '/', got %q", value)
		}
		c.OSCAddressYPR = value

	// MIDI
	case "MIDI_ANGLE_UNIT":
		u, err := midi.ParseAngleUnit(value)
		if err != nil {
			return fmt.Errorf("invalid MIDI_ANGLE_UNIT: %w", err)
		}
		c.MIDIAngleUnit = u
	case "MIDI_CHANNEL":
		val, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MIDI_CHANNEL %q: %w", value, err)
		}
		if val < 0 || val > 15 {
			return fmt.Errorf("MIDI_CHANNEL must be 0-15, got %d", val)
		}
		c.MIDIChannel = uint8(val)
	case "MIDI_CC_YAW":
		cc, err := parseController("MIDI_CC_YAW", value)
		if err != nil {
			return err
		}
		c.MIDIAxes.Yaw = cc
	case "MIDI_CC_PITCH":
		cc, err := parseController("MIDI_CC_PITCH", value)
		if err != nil {
			return err
		}
		c.MIDIAxes.Pitch = cc
	case "MIDI_CC_ROLL":
		cc, err := parseController("MIDI_CC_ROLL", value)
		if err != nil {
			return err
		}
		c.MIDIAxes.Roll = cc

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parsePort(key, value string) (int, error) {
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%s must be 1-65535, got %d", key, port)
	}
	return port, nil
}

// parseController accepts the MSB half of a 14-bit controller pair.
func parseController(key, value string) (uint8, error) {
	val, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if val < 0 || val > 31 {
		return 0, fmt.Errorf("%s must be 0-31, got %d", key, val)
	}
	return uint8(val), nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicPose == "" {
		return fmt.Errorf("TOPIC_POSE must not be empty")
	}
	if c.TopicPoseMIDI == c.TopicPose {
		return fmt.Errorf("TOPIC_POSE_MIDI must differ from TOPIC_POSE")
	}
	if err := c.MIDIAxes.Validate(); err != nil {
		return fmt.Errorf("MIDI_CC_*: %w", err)
	}
	return nil
}

// OSCBuilder returns the message builder described by the OSC settings.
func (c *Config) OSCBuilder() oscmsg.Builder {
	return oscmsg.Builder{
		Format:     c.OSCFormat,
		PanAddress: c.OSCAddressPan,
		YPRAddress: c.OSCAddressYPR,
	}
}

// OSCTarget is the host:port the OSC preview is labelled with.
func (c *Config) OSCTarget() string {
	return fmt.Sprintf("%s:%d", c.OSCHost, c.OSCPort)
}

// InitGlobal loads the global configuration. Only the first call does any
// work; later calls are no-ops returning nil.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
