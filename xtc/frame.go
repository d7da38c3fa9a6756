package xtc

import "github.com/halvard-md/mdxtc/v3"

// Magic values a frame header may declare (spec section 6.1).
const (
	MagicLegacy   int32 = 1995
	MagicExtended int32 = 2023
)

// Frame is one decoded trajectory snapshot. Units are nm for Box and
// Coords, ps for Time.
type Frame struct {
	Step      int64
	Time      float32
	Box       [3][3]float32
	NAtoms    int
	Precision float32 // -1 when the small-system uncompressed branch was used
	Coords    *v3.Matrix
}

// Trajectory is a fully materialized sequence of frames read from one
// file. All frames share NAtoms.
type Trajectory struct {
	Filename string
	NAtoms   int
	Frames   []Frame
}
