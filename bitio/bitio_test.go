package bitio

import (
	"errors"
	"testing"
)

func TestReceiveBitsNibbles(t *testing.T) {
	// S4: bytes [0xD6, 0xAA] read as four 4-bit nibbles.
	r := NewReader([]byte{0xD6, 0xAA})
	want := []uint32{0xD, 0x6, 0xA, 0xA}
	for i, w := range want {
		got, err := r.ReceiveBits(4)
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d: got %#x, want %#x", i, got, w)
		}
	}
}

func TestReceiveBitsWholeBytes(t *testing.T) {
	r := NewReader([]byte{0xAB, 0xCD, 0xEF})
	for _, w := range []uint32{0xAB, 0xCD, 0xEF} {
		got, err := r.ReceiveBits(8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != w {
			t.Errorf("got %#x, want %#x", got, w)
		}
	}
}

func TestReceiveBits32(t *testing.T) {
	r := NewReader([]byte{0x12, 0x34, 0x56, 0x78})
	got, err := r.ReceiveBits(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0x12345678 {
		t.Errorf("got %#x, want %#x", got, 0x12345678)
	}
}

func TestReceiveBitsSplitAcrossBoundary(t *testing.T) {
	// 1101 0110 1010 1010 1111 0000 -- split as 3, then 13, then 8.
	r := NewReader([]byte{0xD6, 0xAA, 0xF0})
	a, err := r.ReceiveBits(3)
	if err != nil {
		t.Fatal(err)
	}
	if a != 0b110 {
		t.Errorf("a: got %b, want 110", a)
	}
	b, err := r.ReceiveBits(13)
	if err != nil {
		t.Fatal(err)
	}
	if b != 0b1011010101010 {
		t.Errorf("b: got %b, want 1011010101010", b)
	}
	c, err := r.ReceiveBits(8)
	if err != nil {
		t.Fatal(err)
	}
	if c != 0b11110000 {
		t.Errorf("c: got %b, want 11110000", c)
	}
}

func TestReceiveBitsConcatenationAgreement(t *testing.T) {
	// Property 4: reading n then m bits agrees with reading n+m bits at once,
	// for n+m <= 24.
	data := []byte{0x5A, 0xC3, 0x91, 0x7E}
	cases := []struct{ n, m int }{
		{3, 5}, {7, 1}, {10, 14}, {1, 23}, {12, 12},
	}
	for _, c := range cases {
		split := NewReader(data)
		hi, err := split.ReceiveBits(c.n)
		if err != nil {
			t.Fatalf("n=%d m=%d: %v", c.n, c.m, err)
		}
		lo, err := split.ReceiveBits(c.m)
		if err != nil {
			t.Fatalf("n=%d m=%d: %v", c.n, c.m, err)
		}
		combined := (hi << uint(c.m)) | lo

		whole := NewReader(data)
		got, err := whole.ReceiveBits(c.n + c.m)
		if err != nil {
			t.Fatalf("n=%d m=%d: %v", c.n, c.m, err)
		}
		if got != combined {
			t.Errorf("n=%d m=%d: split gave %#x, whole gave %#x", c.n, c.m, combined, got)
		}
	}
}

func TestReceiveBitsOverrun(t *testing.T) {
	r := NewReader([]byte{0xFF})
	if _, err := r.ReceiveBits(16); !errors.Is(err, ErrOverrun) {
		t.Errorf("got %v, want ErrOverrun", err)
	}
}

func TestReset(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xFF})
	if _, err := r.ReceiveBits(4); err != nil {
		t.Fatal(err)
	}
	r.Reset([]byte{0xD6, 0xAA})
	got, err := r.ReceiveBits(4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xD {
		t.Errorf("after reset: got %#x, want 0xD", got)
	}
}

func TestReceiveBitsPanicsOnInvalidN(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for n=0")
		}
	}()
	NewReader([]byte{0}).ReceiveBits(0)
}
