// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"time"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/orientation"
)

// RunMockConsole runs the whole pipeline against the mock tracker without
// a broker. Uses the global config when loaded, defaults otherwise.
func RunMockConsole() error {
	cfg := config.Get()
	if cfg == nil {
		cfg = config.Default()
	}
	p := newPipeline(cfg)

	src := orientation.NewMockSource()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		m, err := src.Next()
		if err != nil {
			return err
		}
		s := p.process(m)

		fmt.Printf("%s | midi %s | %s\n",
			formatPose(s.Pose),
			formatPose(s.MIDIPose),
			s.OSC.String(),
		)
	}
	return nil
}
