package xtc

import (
	"errors"
	"fmt"
	"io"

	"github.com/halvard-md/mdxtc/bitio"
	"github.com/halvard-md/mdxtc/mixedradix"
	"github.com/halvard-md/mdxtc/v3"
	"github.com/halvard-md/mdxtc/xdr"
)

// scratch is the reusable per-stream workspace referenced in spec
// section 3: a growable compressed-payload buffer and a bit reader
// rebound onto it every frame, so a stream that decodes many frames
// allocates neither per frame once the buffer reaches its steady-state
// size.
type scratch struct {
	compressed []byte
	bits       bitio.Reader
}

func (s *scratch) readCompressed(r io.Reader, filename string, n int) error {
	if cap(s.compressed) < n {
		s.compressed = make([]byte, n)
	} else {
		s.compressed = s.compressed[:n]
	}
	if err := xdr.ReadOpaqueInto(r, s.compressed); err != nil {
		return eofErr(filename, "read compressed payload", err)
	}
	s.bits.Reset(s.compressed)
	return nil
}

// ensureCoords makes sure frame.Coords has exactly n rows, reusing the
// existing backing matrix when the size already matches (the common
// case: every frame of a trajectory carries the same atom count).
func ensureCoords(frame *Frame, n int) {
	if frame.Coords != nil && frame.Coords.NVecs() == n {
		return
	}
	frame.Coords = v3.Zeros(n)
}

// decodeFrame reads one complete frame (header, box and compressed
// coordinate block) from r into frame, using sc as scratch space.
// filename is used only for error decoration.
func decodeFrame(r io.Reader, filename string, frame *Frame, sc *scratch) error {
	magic, err := xdr.ReadInt32(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Nothing was read yet: this is an ordinary frame boundary,
			// not a truncated record.
			return ErrEndOfTrajectory
		}
		return eofErr(filename, "read magic", err)
	}
	if magic != MagicLegacy && magic != MagicExtended {
		return badMagicErr(filename, magic)
	}

	headerNAtoms, err := xdr.ReadInt32(r)
	if err != nil {
		return eofErr(filename, "read natoms", err)
	}
	step32, err := xdr.ReadInt32(r)
	if err != nil {
		return eofErr(filename, "read step", err)
	}
	frame.Step = int64(step32)

	frame.Time, err = xdr.ReadFloat32(r)
	if err != nil {
		return eofErr(filename, "read time", err)
	}

	var boxFlat [9]float32
	if err := xdr.ReadFloat32s(r, boxFlat[:]); err != nil {
		return eofErr(filename, "read box", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			frame.Box[i][j] = boxFlat[3*i+j]
		}
	}

	lsize32, err := xdr.ReadInt32(r)
	if err != nil {
		return eofErr(filename, "read lsize", err)
	}
	lsize := int(lsize32)

	if lsize32 != headerNAtoms {
		log.Warn().
			Str("file", filename).
			Int("lsize", lsize).
			Int("natoms", int(headerNAtoms)).
			Msg("xtc: lsize does not match header natoms; using lsize")
	}

	ensureCoords(frame, lsize)
	frame.NAtoms = lsize

	if lsize <= 9 {
		frame.Precision = -1
		raw := make([]float32, 3*lsize)
		if err := xdr.ReadFloat32s(r, raw); err != nil {
			return eofErr(filename, "read uncompressed coords", err)
		}
		for i := 0; i < lsize; i++ {
			row := frame.Coords.Row(i)
			row[0] = float64(raw[3*i])
			row[1] = float64(raw[3*i+1])
			row[2] = float64(raw[3*i+2])
		}
		return nil
	}

	return decodeCompressed(r, magic, filename, lsize, frame, sc)
}

func decodeCompressed(r io.Reader, magic int32, filename string, lsize int, frame *Frame, sc *scratch) error {
	precision, err := xdr.ReadFloat32(r)
	if err != nil {
		return eofErr(filename, "read precision", err)
	}

	var minint, maxint [3]int32
	for k := 0; k < 3; k++ {
		if minint[k], err = xdr.ReadInt32(r); err != nil {
			return eofErr(filename, "read minint", err)
		}
	}
	for k := 0; k < 3; k++ {
		if maxint[k], err = xdr.ReadInt32(r); err != nil {
			return eofErr(filename, "read maxint", err)
		}
	}
	smallidx32, err := xdr.ReadInt32(r)
	if err != nil {
		return eofErr(filename, "read smallidx", err)
	}
	smallidx := int(smallidx32)
	if smallidx < 0 || smallidx > mixedradix.LastIdx {
		return corruptErr(filename, "read smallidx", fmt.Errorf("smallidx %d out of range [0, %d]", smallidx, mixedradix.LastIdx))
	}

	var sizeint [3]uint32
	largeRange := false
	for k := 0; k < 3; k++ {
		sizeint[k] = uint32(maxint[k] - minint[k] + 1)
		if sizeint[k] > 0xFFFFFF {
			largeRange = true
		}
	}

	var bitsize int
	var bitsizeint [3]int
	if largeRange {
		for k := 0; k < 3; k++ {
			bitsizeint[k] = mixedradix.SizeOfInt(sizeint[k])
		}
	} else {
		bitsize = mixedradix.SizeOfInts(sizeint)
	}

	var bufsize int64
	if magic == MagicExtended {
		bufsize, err = xdr.ReadInt64(r)
	} else {
		var b32 int32
		b32, err = xdr.ReadInt32(r)
		bufsize = int64(b32)
	}
	if err != nil {
		return eofErr(filename, "read bufsize", err)
	}

	if err := sc.readCompressed(r, filename, int(bufsize)); err != nil {
		return err
	}

	invPrecision := 1.0 / float64(precision)

	var smaller uint32
	if smallidx > mixedradix.FirstIdx-1 {
		smaller = mixedradix.MagicInts[smallidx-1] / 2
	}
	smallnum := mixedradix.MagicInts[smallidx] / 2
	sizesmall := [3]uint32{mixedradix.MagicInts[smallidx], mixedradix.MagicInts[smallidx], mixedradix.MagicInts[smallidx]}

	out := 0
	i := 0
	for i < lsize {
		var base [3]int32
		if bitsize == 0 {
			for k := 0; k < 3; k++ {
				v, err := sc.bits.ReceiveBits(bitsizeint[k])
				if err != nil {
					return corruptErr(filename, "receive base coord (large range)", err)
				}
				base[k] = int32(v) + minint[k]
			}
		} else {
			v, err := mixedradix.ReceiveInts(&sc.bits, bitsize, sizeint)
			if err != nil {
				return corruptErr(filename, "receive base coord", err)
			}
			for k := 0; k < 3; k++ {
				base[k] = int32(v[k]) + minint[k]
			}
		}
		prevcoord := base

		flagBit, err := sc.bits.ReceiveBits(1)
		if err != nil {
			return corruptErr(filename, "receive run flag", err)
		}
		run := 0
		isSmaller := 0
		if flagBit != 0 {
			runBits, err := sc.bits.ReceiveBits(5)
			if err != nil {
				return corruptErr(filename, "receive run length", err)
			}
			run = int(runBits)
			isSmaller = run % 3
			run -= isSmaller
			isSmaller--
		}

		if run > 0 {
			for k := 0; k < run; k += 3 {
				recv, err := mixedradix.ReceiveInts(&sc.bits, smallidx, sizesmall)
				if err != nil {
					return corruptErr(filename, "receive small-run coord", err)
				}
				var delta [3]int32
				for a := 0; a < 3; a++ {
					delta[a] = int32(recv[a]) + prevcoord[a] - int32(smallnum)
				}
				if k == 0 {
					// Water-molecule swap: the just-decoded small delta
					// and the base atom decoded above trade places in
					// output order, restoring on-disk atom order even
					// though the delta references the preceding atom.
					emitCoord(frame, out, delta, invPrecision)
					out++
					emitCoord(frame, out, prevcoord, invPrecision)
					out++
				} else {
					emitCoord(frame, out, delta, invPrecision)
					out++
				}
				prevcoord = delta
				i++
			}
		} else {
			// flag==0, or flag==1 with a nibble whose run component is
			// zero (is_smaller adjusts alone): either way there are no
			// small-delta neighbours this pass, so the base atom is the
			// only coordinate to emit.
			emitCoord(frame, out, base, invPrecision)
			out++
		}

		smallidx += isSmaller
		if smallidx < 0 || smallidx > mixedradix.LastIdx {
			return corruptErr(filename, "adjust smallidx", fmt.Errorf("smallidx drifted to %d, out of range [0, %d]", smallidx, mixedradix.LastIdx))
		}
		switch {
		case isSmaller < 0:
			smallnum = smaller
			if smallidx > mixedradix.FirstIdx-1 {
				smaller = mixedradix.MagicInts[smallidx-1] / 2
			} else {
				smaller = 0
			}
		case isSmaller > 0:
			smaller = smallnum
			smallnum = mixedradix.MagicInts[smallidx] / 2
		}
		sizesmall = [3]uint32{mixedradix.MagicInts[smallidx], mixedradix.MagicInts[smallidx], mixedradix.MagicInts[smallidx]}

		i++
	}

	frame.Precision = precision
	return nil
}

func emitCoord(frame *Frame, out int, coord [3]int32, invPrecision float64) {
	row := frame.Coords.Row(out)
	row[0] = float64(coord[0]) * invPrecision
	row[1] = float64(coord[1]) * invPrecision
	row[2] = float64(coord[2]) * invPrecision
}
