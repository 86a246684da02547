package basetype

import (
	"errors"
	"testing"
)

func TestLookupKnownTags(t *testing.T) {
	cases := []struct {
		tag  byte
		name string
		size int
	}{
		{0x00, "enum", 1},
		{0x01, "sint8", 1},
		{0x84, "uint16", 2},
		{0x86, "uint32", 4},
		{0x07, "string", 0},
		{0x88, "float32", 4},
		{0x8C, "uint32z", 4},
		{0x0D, "byte", 1},
	}
	for _, tc := range cases {
		e, err := Lookup(tc.tag)
		if err != nil {
			t.Fatalf("Lookup(0x%02X): %v", tc.tag, err)
		}
		if e.Name != tc.name || e.Size != tc.size {
			t.Fatalf("Lookup(0x%02X) = %s/%d, want %s/%d", tc.tag, e.Name, e.Size, tc.name, tc.size)
		}
	}
}

func TestLookupUnknownTag(t *testing.T) {
	// 0x03 has index 3 but the sint16 row there carries tag 0x83.
	if _, err := Lookup(0x03); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := Lookup(0x1F); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestByIndex(t *testing.T) {
	e, err := ByIndex(9)
	if err != nil {
		t.Fatalf("ByIndex(9): %v", err)
	}
	if e.Name != "float64" {
		t.Fatalf("ByIndex(9) = %s, want float64", e.Name)
	}
	if _, err := ByIndex(Count()); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := ByIndex(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestTableShape(t *testing.T) {
	if Count() != 14 {
		t.Fatalf("catalog has %d rows, want 14", Count())
	}
	for i := 0; i < Count(); i++ {
		e, err := ByIndex(i)
		if err != nil {
			t.Fatalf("ByIndex(%d): %v", i, err)
		}
		if int(e.Tag&0x1F) != i {
			t.Fatalf("row %d: tag 0x%02X index bits mismatch", i, e.Tag)
		}
	}
}

func TestByName(t *testing.T) {
	e, ok := ByName("uint16z")
	if !ok || e.Tag != 0x8B {
		t.Fatalf("ByName(uint16z) = %+v ok=%v", e, ok)
	}
	if _, ok := ByName("uint128"); ok {
		t.Fatal("ByName(uint128) should miss")
	}
}
