package topology

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// SaveCache writes t's atom list as a gob stream wrapped in a zstd
// encoder, so re-parsing a large structure file can be skipped on
// repeat runs. The cache is never authoritative: LoadCache failures
// should fall back to re-parsing, not be treated as fatal.
func SaveCache(w io.Writer, t *Topology) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("topology: open cache writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(t.Atoms); err != nil {
		zw.Close()
		return fmt.Errorf("topology: encode cache: %w", err)
	}
	return zw.Close()
}

// LoadCache reads back a cache written by SaveCache and rebuilds the
// full index.
func LoadCache(r io.Reader) (*Topology, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("topology: open cache reader: %w", err)
	}
	defer zr.Close()

	var atoms []Atom
	if err := gob.NewDecoder(zr).Decode(&atoms); err != nil {
		return nil, fmt.Errorf("topology: decode cache: %w", err)
	}
	return New(atoms), nil
}
