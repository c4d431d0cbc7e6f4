// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock tracker that slowly turns the head around
// while nodding and tilting a little.
func NewMockSource() Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) Next() (RotationMatrix, error) {
	return Compose(m.poseAt(m.now().Sub(m.start).Seconds())), nil
}

// poseAt keeps yaw in (-180, 180] so the sweep survives a decompose.
func (m *mockSource) poseAt(elapsed float64) Pose {
	yaw := math.Mod(elapsed*30, 360)
	if yaw > 180 {
		yaw -= 360
	}
	return Pose{
		Yaw:   yaw,
		Pitch: 15 * math.Cos(elapsed*0.7),
		Roll:  20 * math.Sin(elapsed),
	}
}
