// Package topology indexes a flat atom list by name, residue name and
// residue id, and provides set algebra over the resulting index lists
// so callers can build atom selections without re-scanning the list.
package topology

import "sort"

// Atom is one entry of a structure file's atom list.
type Atom struct {
	Index   int // 0-based position in the structure file
	Name    string
	ResName string
	ResID   int
	Element string
}

// Topology is an indexed atom list.
type Topology struct {
	Atoms []Atom

	byName    map[string][]int
	byResName map[string][]int
	byResID   map[int][]int
}

// New builds a Topology over atoms, indexing by name, residue name and
// residue id in one pass.
func New(atoms []Atom) *Topology {
	t := &Topology{
		Atoms:     atoms,
		byName:    make(map[string][]int, len(atoms)),
		byResName: make(map[string][]int),
		byResID:   make(map[int][]int),
	}
	for _, a := range atoms {
		t.byName[a.Name] = append(t.byName[a.Name], a.Index)
		t.byResName[a.ResName] = append(t.byResName[a.ResName], a.Index)
		t.byResID[a.ResID] = append(t.byResID[a.ResID], a.Index)
	}
	return t
}

// ByName returns the indices of every atom with the given name.
func (t *Topology) ByName(name string) Selection {
	return Selection(t.byName[name])
}

// ByResName returns the indices of every atom belonging to a residue
// with the given name.
func (t *Topology) ByResName(name string) Selection {
	return Selection(t.byResName[name])
}

// ByResID returns the indices of every atom belonging to the residue
// with the given id.
func (t *Topology) ByResID(id int) Selection {
	return Selection(t.byResID[id])
}

// Selection is a sorted, deduplicated list of atom indices.
type Selection []int

// Union returns the sorted, deduplicated union of s and other.
func (s Selection) Union(other Selection) Selection {
	return merge(s, other, func(inA, inB bool) bool { return inA || inB })
}

// Intersect returns the sorted indices present in both s and other.
func (s Selection) Intersect(other Selection) Selection {
	return merge(s, other, func(inA, inB bool) bool { return inA && inB })
}

// Subtract returns the sorted indices in s that are not in other.
func (s Selection) Subtract(other Selection) Selection {
	return merge(s, other, func(inA, inB bool) bool { return inA && !inB })
}

// merge sorts copies of both index lists, walks them in lockstep and
// keeps indices for which keep(presentInA, presentInB) is true. Inputs
// need not be sorted; duplicates within one input are not removed.
func merge(a, b Selection, keep func(inA, inB bool) bool) Selection {
	as := sortedCopy(a)
	bs := sortedCopy(b)
	out := make(Selection, 0, len(as)+len(bs))
	i, j := 0, 0
	for i < len(as) || j < len(bs) {
		switch {
		case j >= len(bs) || (i < len(as) && as[i] < bs[j]):
			if keep(true, false) {
				out = append(out, as[i])
			}
			i++
		case i >= len(as) || bs[j] < as[i]:
			if keep(false, true) {
				out = append(out, bs[j])
			}
			j++
		default:
			if keep(true, true) {
				out = append(out, as[i])
			}
			i++
			j++
		}
	}
	return out
}

func sortedCopy(s Selection) Selection {
	out := make(Selection, len(s))
	copy(out, s)
	sort.Ints(out)
	return out
}

// GuessElement guesses a chemical element symbol from a structure
// file's atom name, following the common AMBER/GROMACS naming
// conventions (element letter, optionally followed by digits or a
// branch label). It returns "" when it can't make a confident guess.
func GuessElement(name string) string {
	switch {
	case name == "":
		return ""
	case len(name) >= 2 && name[:2] == "CL":
		return "Cl"
	case len(name) >= 2 && name[:2] == "NA":
		return "Na"
	case len(name) >= 2 && name[:2] == "CU":
		return "Cu"
	case len(name) >= 2 && name[:2] == "ZN":
		return "Zn"
	case len(name) >= 2 && name[:2] == "SE":
		return "Se"
	}
	switch name[0] {
	case 'H':
		return "H"
	case 'C':
		return "C"
	case 'N':
		return "N"
	case 'O':
		return "O"
	case 'P':
		return "P"
	case 'S':
		return "S"
	default:
		return ""
	}
}
