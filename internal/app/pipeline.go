// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/midi"
	"github.com/relabs-tech/head_tracker/internal/orientation"
	"github.com/relabs-tech/head_tracker/internal/oscmsg"
)

// trackerSample is everything derived from one tracker matrix.
type trackerSample struct {
	Pose     orientation.Pose // decomposed from the matrix
	MIDIPose orientation.Pose // same pose after a 14-bit MIDI round trip
	OSC      *osc.Message
}

// pipeline turns tracker matrices into poses. The MIDI leg mirrors what a
// tracker in MIDI mode sends: each angle as an MSB/LSB controller pair,
// decoded back through the assembler.
type pipeline struct {
	osc     oscmsg.Builder
	channel uint8
	axes    midi.AxisMap
	unit    midi.AngleUnit
	asm     *midi.Assembler
}

func newPipeline(cfg *config.Config) *pipeline {
	return &pipeline{
		osc:     cfg.OSCBuilder(),
		channel: cfg.MIDIChannel,
		axes:    cfg.MIDIAxes,
		unit:    cfg.MIDIAngleUnit,
		asm:     midi.NewAssembler(cfg.MIDIAxes, cfg.MIDIAngleUnit),
	}
}

func (p *pipeline) process(m orientation.RotationMatrix) trackerSample {
	pose := orientation.Decompose(m)

	for _, msg := range midi.PoseMessages(p.channel, p.axes, pose, p.unit) {
		p.asm.Feed(msg)
	}

	return trackerSample{
		Pose:     pose,
		MIDIPose: p.asm.Pose(),
		OSC:      p.osc.Build(pose),
	}
}

func formatPose(p orientation.Pose) string {
	return fmt.Sprintf("YAW=%7.2f  PITCH=%7.2f  ROLL=%7.2f", p.Yaw, p.Pitch, p.Roll)
}
