package basetype

import (
	"errors"
	"fmt"
)

// Kind classifies how a base type's raw bits are interpreted.
type Kind int

const (
	KindSigned Kind = iota
	KindUnsigned
	KindFloat
	KindString
)

// Entry describes one protocol base type.
type Entry struct {
	Tag      byte
	Name     string
	Kind     Kind
	Sentinel uint64
	Size     int
}

var (
	ErrUnknownType     = errors.New("unknown base type")
	ErrIndexOutOfRange = errors.New("base type index out of range")
)

// The table is indexed by the lower five bits of the type tag. The high bit
// marks multi-byte types whose payload follows the message byte order.
var table = []Entry{
	{Tag: 0x00, Name: "enum", Kind: KindUnsigned, Sentinel: 0xFF, Size: 1},
	{Tag: 0x01, Name: "sint8", Kind: KindSigned, Sentinel: 0x7F, Size: 1},
	{Tag: 0x02, Name: "uint8", Kind: KindUnsigned, Sentinel: 0xFF, Size: 1},
	{Tag: 0x83, Name: "sint16", Kind: KindSigned, Sentinel: 0x7FFF, Size: 2},
	{Tag: 0x84, Name: "uint16", Kind: KindUnsigned, Sentinel: 0xFFFF, Size: 2},
	{Tag: 0x85, Name: "sint32", Kind: KindSigned, Sentinel: 0x7FFFFFFF, Size: 4},
	{Tag: 0x86, Name: "uint32", Kind: KindUnsigned, Sentinel: 0xFFFFFFFF, Size: 4},
	{Tag: 0x07, Name: "string", Kind: KindString, Sentinel: 0, Size: 0},
	{Tag: 0x88, Name: "float32", Kind: KindFloat, Sentinel: 0xFFFFFFFF, Size: 4},
	{Tag: 0x89, Name: "float64", Kind: KindFloat, Sentinel: 0xFFFFFFFFFFFFFFFF, Size: 8},
	{Tag: 0x0A, Name: "uint8z", Kind: KindUnsigned, Sentinel: 0, Size: 1},
	{Tag: 0x8B, Name: "uint16z", Kind: KindUnsigned, Sentinel: 0, Size: 2},
	{Tag: 0x8C, Name: "uint32z", Kind: KindUnsigned, Sentinel: 0, Size: 4},
	{Tag: 0x0D, Name: "byte", Kind: KindUnsigned, Sentinel: 0xFF, Size: 1},
}

// Count returns the number of catalog rows.
func Count() int { return len(table) }

// Lookup resolves a full protocol type tag to its catalog entry.
func Lookup(tag byte) (Entry, error) {
	i := int(tag & 0x1F)
	if i >= len(table) || table[i].Tag != tag {
		return Entry{}, fmt.Errorf("%w: 0x%02X", ErrUnknownType, tag)
	}
	return table[i], nil
}

// ByIndex resolves the five-bit base type index carried in a field
// definition byte.
func ByIndex(i int) (Entry, error) {
	if i < 0 || i >= len(table) {
		return Entry{}, fmt.Errorf("%w: %d (table has %d rows)", ErrIndexOutOfRange, i, len(table))
	}
	return table[i], nil
}

// ByName resolves a base type by its textual name, used when loading
// schema overlays.
func ByName(name string) (Entry, bool) {
	for _, e := range table {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
