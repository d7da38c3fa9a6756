package xtc

import (
	"errors"
	"os"
)

// FrameIter streams frames from an XTC file without allocating per
// frame once its internal buffers reach steady state: Frame returns a
// pointer into iterator state that is overwritten on the next Next
// call, matching the lending-by-borrow discipline described in spec
// section 9. Callers that need to keep a frame past the next advance
// must copy it (see Frame.Coords.Clone).
type FrameIter struct {
	f        *os.File
	filename string
	frame    Frame
	sc       scratch
	err      error
	done     bool
}

// Frames opens path and returns an allocation-free frame iterator over it.
func Frames(path string) (*FrameIter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErr(path, "open", err)
	}
	return &FrameIter{f: f, filename: path}, nil
}

// Next decodes the next frame, returning false at end of stream or on
// the first unrecoverable error; check Err to tell the two apart.
func (it *FrameIter) Next() bool {
	if it.done {
		return false
	}
	if err := decodeFrame(it.f, it.filename, &it.frame, &it.sc); err != nil {
		it.done = true
		if !errors.Is(err, ErrEndOfTrajectory) {
			it.err = err
		}
		it.Close()
		return false
	}
	return true
}

// Frame returns the most recently decoded frame. The returned pointer
// is only valid until the next call to Next.
func (it *FrameIter) Frame() *Frame { return &it.frame }

// Err returns the first unrecoverable error encountered, or nil if
// iteration ended normally.
func (it *FrameIter) Err() error { return it.err }

// Close releases the underlying file handle. It is safe to call more
// than once.
func (it *FrameIter) Close() error {
	if it.f == nil {
		return nil
	}
	err := it.f.Close()
	it.f = nil
	if err != nil {
		return ioErr(it.filename, "close", err)
	}
	return nil
}

// ReadAll reads every frame of path into memory, allocating a fresh
// coordinate matrix per frame.
func ReadAll(path string) (*Trajectory, error) {
	it, err := Frames(path)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	traj := &Trajectory{Filename: path}
	for it.Next() {
		f := it.Frame()
		traj.NAtoms = f.NAtoms
		traj.Frames = append(traj.Frames, Frame{
			Step:      f.Step,
			Time:      f.Time,
			Box:       f.Box,
			NAtoms:    f.NAtoms,
			Precision: f.Precision,
			Coords:    f.Coords.Clone(),
		})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return traj, nil
}
