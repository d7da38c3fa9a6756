// Package xdr implements the subset of External Data Representation
// (RFC 1014) used by the GROMACS trajectory formats: big-endian fixed
// width integers and floats, and length-prefixed opaque byte blocks
// padded to a 4-byte boundary.
package xdr

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReadInt32 reads one big-endian 4-byte signed integer.
func ReadInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapEOF(err, "xdr: read int32")
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

// ReadInt64 reads one big-endian 8-byte signed integer.
func ReadInt64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapEOF(err, "xdr: read int64")
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

// ReadFloat32 reads one big-endian IEEE-754 single-precision float.
func ReadFloat32(r io.Reader) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapEOF(err, "xdr: read float32")
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf[:])), nil
}

// ReadFloat32s reads n consecutive big-endian float32 values into out,
// which must have length n.
func ReadFloat32s(r io.Reader, out []float32) error {
	buf := make([]byte, 4*len(out))
	if _, err := io.ReadFull(r, buf); err != nil {
		return wrapEOF(err, "xdr: read float32 vector")
	}
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(buf[4*i : 4*i+4]))
	}
	return nil
}

// padding returns the number of zero bytes needed to round n up to the
// next multiple of 4, per the XDR opaque-data alignment rule.
func padding(n int) int {
	return (4 - n%4) % 4
}

// ReadOpaque reads an n-byte blob followed by its XDR padding and
// returns the blob (without the padding).
func ReadOpaque(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, wrapEOF(err, "xdr: read opaque")
		}
	}
	if err := skip(r, padding(n)); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadOpaqueInto reads len(buf) bytes into buf followed by XDR padding,
// avoiding an allocation when the caller already owns a sized buffer.
func ReadOpaqueInto(r io.Reader, buf []byte) error {
	if len(buf) > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return wrapEOF(err, "xdr: read opaque")
		}
	}
	return skip(r, padding(len(buf)))
}

func skip(r io.Reader, n int) error {
	if n == 0 {
		return nil
	}
	var pad [4]byte
	if _, err := io.ReadFull(r, pad[:n]); err != nil {
		return wrapEOF(err, "xdr: read padding")
	}
	return nil
}

// wrapEOF decorates err with op while preserving its identity under
// errors.Is: callers distinguish a clean io.EOF (nothing read yet, a
// legitimate place to stop) from io.ErrUnexpectedEOF (a read started
// but didn't complete, i.e. truncation).
func wrapEOF(err error, op string) error {
	return fmt.Errorf("%s: %w", op, err)
}
