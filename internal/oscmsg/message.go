// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package oscmsg packages head poses into OSC messages for a spatial
// audio renderer. Sending them is left to the caller.
package oscmsg

import (
	"fmt"
	"strings"

	"github.com/hypebeast/go-osc/osc"

	"github.com/relabs-tech/head_tracker/internal/orientation"
)

const (
	DefaultPanAddress = "/WONDER/tracker/move/pan"
	DefaultYPRAddress = "/WONDER/tracker/move/ypr"
)

// Format selects the message layout.
type Format int

const (
	// FormatPan sends only the yaw as a single pan angle.
	FormatPan Format = iota
	// FormatYPR sends yaw, pitch and roll.
	FormatYPR
)

func (f Format) String() string {
	switch f {
	case FormatPan:
		return "pan"
	case FormatYPR:
		return "ypr"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pan":
		return FormatPan, nil
	case "ypr":
		return FormatYPR, nil
	default:
		return 0, fmt.Errorf("unknown OSC format %q (want pan or ypr)", s)
	}
}

// PanMessage builds "addr ,f yaw".
func PanMessage(addr string, p orientation.Pose) *osc.Message {
	msg := osc.NewMessage(addr)
	msg.Append(float32(p.Yaw))
	return msg
}

// YawPitchRollMessage builds "addr ,fff yaw pitch roll".
func YawPitchRollMessage(addr string, p orientation.Pose) *osc.Message {
	msg := osc.NewMessage(addr)
	msg.Append(float32(p.Yaw), float32(p.Pitch), float32(p.Roll))
	return msg
}

// Builder picks the layout and address from configuration.
type Builder struct {
	Format     Format
	PanAddress string
	YPRAddress string
}

// NewBuilder returns a Builder using the default addresses.
func NewBuilder(f Format) Builder {
	return Builder{Format: f, PanAddress: DefaultPanAddress, YPRAddress: DefaultYPRAddress}
}

func (b Builder) Build(p orientation.Pose) *osc.Message {
	if b.Format == FormatYPR {
		return YawPitchRollMessage(b.YPRAddress, p)
	}
	return PanMessage(b.PanAddress, p)
}
