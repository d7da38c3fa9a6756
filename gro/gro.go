// Package gro parses GROMACS .gro structure files: a fixed-column atom
// list framed by a title line, an atom count, and a trailing box-vector
// line.
package gro

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/halvard-md/mdxtc/topology"
)

// Structure is a parsed .gro file: the atom list plus the box matrix
// from its final line.
type Structure struct {
	Title     string
	NAtoms    int
	Atoms     []topology.Atom
	Positions [][3]float64 // nm, one entry per atom, same order as Atoms
	Box       [3][3]float32
}

// ParseStructureFile opens path and parses it as a .gro file.
func ParseStructureFile(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gro: open %s: %w", path, err)
	}
	defer f.Close()
	s, err := ParseStructure(f)
	if err != nil {
		return nil, fmt.Errorf("gro: %s: %w", path, err)
	}
	return s, nil
}

// ParseStructure reads a .gro file from r.
//
// Atom lines are fixed-column: residue number (cols 1-5), residue name
// (6-10), atom name (11-15), atom number (16-20), then x/y/z in %8.3f
// fields. Velocity columns, if present, are ignored. The final line
// holds the box vectors as three required floats (the diagonal) and up
// to six optional off-diagonal floats, all defaulting to zero when
// absent, per the GRO box-vector convention.
func ParseStructure(r io.Reader) (*Structure, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), 4096)

	if !sc.Scan() {
		return nil, fmt.Errorf("gro: missing title line")
	}
	title := sc.Text()

	if !sc.Scan() {
		return nil, fmt.Errorf("gro: missing atom count line")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return nil, fmt.Errorf("gro: bad atom count %q: %w", sc.Text(), err)
	}

	atoms := make([]topology.Atom, natoms)
	positions := make([][3]float64, natoms)
	for i := 0; i < natoms; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("gro: truncated atom list: expected %d atoms, got %d", natoms, i)
		}
		a, pos, err := parseAtomLine(sc.Text(), i)
		if err != nil {
			return nil, fmt.Errorf("gro: atom line %d: %w", i+1, err)
		}
		atoms[i] = a
		positions[i] = pos
	}

	if !sc.Scan() {
		return nil, fmt.Errorf("gro: missing box vector line")
	}
	box, err := parseBoxLine(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("gro: box line: %w", err)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("gro: %w", err)
	}

	return &Structure{
		Title:     title,
		NAtoms:    natoms,
		Atoms:     atoms,
		Positions: positions,
		Box:       box,
	}, nil
}

func parseAtomLine(line string, index int) (topology.Atom, [3]float64, error) {
	if len(line) < 44 {
		return topology.Atom{}, [3]float64{}, fmt.Errorf("line too short (%d bytes): %q", len(line), line)
	}
	resid, err := strconv.Atoi(strings.TrimSpace(line[0:5]))
	if err != nil {
		return topology.Atom{}, [3]float64{}, fmt.Errorf("residue number: %w", err)
	}
	resname := strings.TrimSpace(line[5:10])
	name := strings.TrimSpace(line[10:15])

	x, err := strconv.ParseFloat(strings.TrimSpace(line[20:28]), 64)
	if err != nil {
		return topology.Atom{}, [3]float64{}, fmt.Errorf("x coordinate: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(line[28:36]), 64)
	if err != nil {
		return topology.Atom{}, [3]float64{}, fmt.Errorf("y coordinate: %w", err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(line[36:44]), 64)
	if err != nil {
		return topology.Atom{}, [3]float64{}, fmt.Errorf("z coordinate: %w", err)
	}

	atom := topology.Atom{
		Index:   index,
		Name:    name,
		ResName: resname,
		ResID:   resid,
		Element: topology.GuessElement(name),
	}
	return atom, [3]float64{x, y, z}, nil
}

func parseBoxLine(line string) ([3][3]float32, error) {
	var box [3][3]float32
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return box, fmt.Errorf("need at least 3 box vector components, got %d", len(fields))
	}
	vals := make([]float64, 9)
	for i, f := range fields {
		if i >= 9 {
			break
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return box, fmt.Errorf("component %d (%q): %w", i, f, err)
		}
		vals[i] = v
	}
	box[0][0] = float32(vals[0])
	box[1][1] = float32(vals[1])
	box[2][2] = float32(vals[2])
	box[0][1] = float32(vals[3])
	box[0][2] = float32(vals[4])
	box[1][0] = float32(vals[5])
	box[1][2] = float32(vals[6])
	box[2][0] = float32(vals[7])
	box[2][1] = float32(vals[8])
	return box, nil
}
