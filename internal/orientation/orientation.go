// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
)

// Pose is the canonical representation of head orientation, in degrees.
type Pose struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// RotationMatrix is a 3x3 rotation in row-major order, as delivered by the tracker.
type RotationMatrix [9]float64

// Matrix4 is a 4x4 transform in row-major order. Only the upper-left 3x3
// block is used for orientation.
type Matrix4 [16]float64

// Identity is the zero rotation.
var Identity = RotationMatrix{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// Source is anything that can provide tracker matrices over time
// (mock source, MIDI stream, replay, ...).
type Source interface {
	Next() (RotationMatrix, error)
}

const radToDeg = 180.0 / math.Pi

// Decompose extracts yaw, pitch and roll from a rotation matrix.
//
//	yaw   = atan2(m[3], m[0])
//	roll  = atan2(-m[6], sqrt(m[7]² + m[8]²))
//	pitch = atan2(m[7], m[8])
//
// The matrix is not validated: non-orthonormal input gives meaningless
// but finite angles. Near gimbal lock (m[7] and m[8] both ~0) yaw and
// pitch become coupled.
func Decompose(m RotationMatrix) Pose {
	yawRad := math.Atan2(m[3], m[0])
	rollRad := math.Atan2(-m[6], math.Sqrt(m[7]*m[7]+m[8]*m[8]))
	pitchRad := math.Atan2(m[7], m[8])

	return Pose{
		Yaw:   yawRad * radToDeg,
		Pitch: pitchRad * radToDeg,
		Roll:  rollRad * radToDeg,
	}
}

// Rotation returns the upper-left 3x3 block of m.
func (m Matrix4) Rotation() RotationMatrix {
	return RotationMatrix{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Decompose4 is Decompose for a 4x4 transform.
func Decompose4(m Matrix4) Pose {
	return Decompose(m.Rotation())
}

// Compose builds the rotation matrix for p under the same convention
// Decompose uses: R = Rz(yaw) · Ry(roll) · Rx(pitch).
// Decompose(Compose(p)) == p while |roll| < 90.
func Compose(p Pose) RotationMatrix {
	sy, cy := math.Sincos(p.Yaw / radToDeg)
	sr, cr := math.Sincos(p.Roll / radToDeg)
	sp, cp := math.Sincos(p.Pitch / radToDeg)

	return RotationMatrix{
		cy * cr, cy*sr*sp - sy*cp, cy*sr*cp + sy*sp,
		sy * cr, sy*sr*sp + cy*cp, sy*sr*cp - cy*sp,
		-sr, cr * sp, cr * cp,
	}
}
