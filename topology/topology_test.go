package topology

import (
	"bytes"
	"reflect"
	"testing"
)

func sampleAtoms() []Atom {
	return []Atom{
		{Index: 0, Name: "OW", ResName: "SOL", ResID: 1, Element: "O"},
		{Index: 1, Name: "HW1", ResName: "SOL", ResID: 1, Element: "H"},
		{Index: 2, Name: "HW2", ResName: "SOL", ResID: 1, Element: "H"},
		{Index: 3, Name: "OW", ResName: "SOL", ResID: 2, Element: "O"},
		{Index: 4, Name: "HW1", ResName: "SOL", ResID: 2, Element: "H"},
		{Index: 5, Name: "HW2", ResName: "SOL", ResID: 2, Element: "H"},
		{Index: 6, Name: "NA", ResName: "NA", ResID: 3, Element: "Na"},
	}
}

func TestIndexLookups(t *testing.T) {
	top := New(sampleAtoms())

	if got := top.ByName("OW"); !reflect.DeepEqual([]int(got), []int{0, 3}) {
		t.Errorf("ByName(OW) = %v, want [0 3]", got)
	}
	if got := top.ByResName("SOL"); !reflect.DeepEqual([]int(got), []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("ByResName(SOL) = %v", got)
	}
	if got := top.ByResID(1); !reflect.DeepEqual([]int(got), []int{0, 1, 2}) {
		t.Errorf("ByResID(1) = %v", got)
	}
	if got := top.ByName("nonexistent"); len(got) != 0 {
		t.Errorf("ByName(nonexistent) = %v, want empty", got)
	}
}

func TestSelectionSetAlgebra(t *testing.T) {
	top := New(sampleAtoms())
	hydrogens := top.ByName("HW1").Union(top.ByName("HW2"))
	want := Selection{1, 2, 4, 5}
	if !reflect.DeepEqual(hydrogens, want) {
		t.Errorf("Union = %v, want %v", hydrogens, want)
	}

	water1 := top.ByResID(1)
	oxygens := top.ByName("OW")
	inter := water1.Intersect(oxygens)
	if !reflect.DeepEqual(inter, Selection{0}) {
		t.Errorf("Intersect = %v, want [0]", inter)
	}

	sub := top.ByResName("SOL").Subtract(hydrogens)
	if !reflect.DeepEqual(sub, Selection{0, 3}) {
		t.Errorf("Subtract = %v, want [0 3]", sub)
	}
}

func TestGuessElement(t *testing.T) {
	cases := map[string]string{
		"OW": "O", "HW1": "H", "CA": "C", "NA": "Na",
		"CL": "Cl", "ZN": "Zn", "SE": "Se", "": "",
	}
	for name, want := range cases {
		if got := GuessElement(name); got != want {
			t.Errorf("GuessElement(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestSaveLoadCache(t *testing.T) {
	top := New(sampleAtoms())
	var buf bytes.Buffer
	if err := SaveCache(&buf, top); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}
	loaded, err := LoadCache(&buf)
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if !reflect.DeepEqual(loaded.Atoms, top.Atoms) {
		t.Errorf("round-tripped atoms differ: got %+v, want %+v", loaded.Atoms, top.Atoms)
	}
	if got := loaded.ByName("OW"); !reflect.DeepEqual([]int(got), []int{0, 3}) {
		t.Errorf("loaded index ByName(OW) = %v, want [0 3]", got)
	}
}
