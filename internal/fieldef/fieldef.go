// Package fieldef models one field slot of a message definition: the wire
// form parsed from the definition section, the identity resolved against a
// schema, and the conversion of raw slot values into domain values.
package fieldef

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/davidwul/gofit/internal/basetype"
	"github.com/davidwul/gofit/internal/profile"
)

// ErrCorruptSize marks an array whose declared byte count is not a
// multiple of the element width.
var ErrCorruptSize = errors.New("corrupt field size")

// WireSize is the byte length of one field definition on the wire.
const WireSize = 3

// Definition describes one field slot of a message occurrence.
type Definition struct {
	Num        byte
	Size       byte
	EndianAble bool
	Base       basetype.Entry

	// Set by ResolveIdentity.
	Name string
	Spec *profile.SchemaField
}

// FromWire parses the three-byte wire form:
// [field number][byte count][endian bit | 2 reserved bits | base type index].
func FromWire(raw []byte) (Definition, error) {
	if len(raw) < WireSize {
		return Definition{}, fmt.Errorf("field definition needs %d bytes, got %d", WireSize, len(raw))
	}
	entry, err := basetype.ByIndex(int(raw[2] & 0x1F))
	if err != nil {
		return Definition{}, fmt.Errorf("field %d: %w", raw[0], err)
	}
	d := Definition{
		Num:        raw[0],
		Size:       raw[1],
		EndianAble: raw[2]&0x80 != 0,
		Base:       entry,
	}
	if err := d.checkSize(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

// New builds a definition outside the wire path, for synthesized fields.
func New(num, size byte, tag byte) (Definition, error) {
	entry, err := basetype.Lookup(tag)
	if err != nil {
		return Definition{}, err
	}
	d := Definition{Num: num, Size: size, EndianAble: entry.Tag&0x80 != 0, Base: entry}
	if err := d.checkSize(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

func (d *Definition) checkSize() error {
	if d.IsArray() && int(d.Size)%d.Base.Size != 0 {
		return fmt.Errorf("%w: field %d declares %d bytes, not a multiple of %d-byte %s",
			ErrCorruptSize, d.Num, d.Size, d.Base.Size, d.Base.Name)
	}
	return nil
}

// IsArray reports whether the slot holds more than one element. Strings
// are never arrays; their declared size is the string buffer length.
func (d *Definition) IsArray() bool {
	return d.Base.Size > 0 && int(d.Size) > d.Base.Size
}

// Elements returns how many values the slot holds.
func (d *Definition) Elements() int {
	if d.Base.Kind == basetype.KindString || d.Base.Size == 0 {
		return 1
	}
	if !d.IsArray() {
		return 1
	}
	return int(d.Size) / d.Base.Size
}

// SetType overrides the slot's base type from the catalog, adjusting the
// declared size to the type's width. Used when a field's type must be
// established ahead of a read.
func (d *Definition) SetType(tag byte) error {
	entry, err := basetype.Lookup(tag)
	if err != nil {
		return err
	}
	d.Base = entry
	d.Size = byte(entry.Size)
	d.EndianAble = entry.Tag&0x80 != 0
	return nil
}

// ResolveIdentity fixes the slot's display name and converter from the
// schema field, or synthesizes them when the schema does not know the
// field. Type disagreements are logged and decoding continues with the
// wire-declared type.
func (d *Definition) ResolveIdentity(sf *profile.SchemaField, log logrus.FieldLogger) {
	if sf == nil {
		d.Name = fmt.Sprintf("field%d", d.Num)
		d.Spec = nil
		if log != nil {
			log.Warnf("unknown field %d, decoding as %s %s", d.Num, d.Base.Name, d.Name)
		}
		return
	}
	d.Name = sf.Name
	d.Spec = sf
	if sf.Type != d.Base.Tag && log != nil {
		log.Warnf("field %s declared as %s on the wire, schema expects type 0x%02X",
			sf.Name, d.Base.Name, sf.Type)
	}
}

// Raw holds one slot's uninterpreted wire value: the per-element bit
// patterns for scalar types, or the byte string for string slots.
type Raw struct {
	Bits []uint64
	Str  string
}

// Undefined reports whether the raw value is the type's sentinel. Arrays
// count as undefined only when every element is the sentinel.
func (d *Definition) Undefined(raw Raw) bool {
	if d.Base.Kind == basetype.KindString {
		return raw.Str == "" || raw.Str[0] == 0
	}
	for _, bits := range raw.Bits {
		if bits != d.Base.Sentinel {
			return false
		}
	}
	return true
}

// ToMachine converts a raw slot value into its domain value. Sentinel
// values become nil; arrays convert element-wise; the schema converter
// applies when present, otherwise the raw value passes through.
func (d *Definition) ToMachine(raw Raw) any {
	if d.Base.Kind == basetype.KindString {
		v := d.convert(raw.Str)
		if s, ok := v.(string); ok {
			return truncateNUL(s)
		}
		return v
	}
	if d.IsArray() {
		out := make([]any, len(raw.Bits))
		for i, bits := range raw.Bits {
			out[i] = d.machineScalar(bits)
		}
		return out
	}
	if len(raw.Bits) == 0 {
		return nil
	}
	return d.machineScalar(raw.Bits[0])
}

func (d *Definition) machineScalar(bits uint64) any {
	if bits == d.Base.Sentinel {
		return nil
	}
	return d.convert(scalarValue(d.Base, bits))
}

func (d *Definition) convert(v any) any {
	if d.Spec != nil && d.Spec.ToMachine != nil {
		return d.Spec.ToMachine(v)
	}
	return v
}

// ToText renders a raw slot value for diagnostics. Arrays render as a
// bracketed space-separated sequence; scalars without a schema text
// converter render bracketed.
func (d *Definition) ToText(raw Raw) string {
	if d.Base.Kind == basetype.KindString {
		return truncateNUL(raw.Str)
	}
	if d.IsArray() {
		parts := make([]string, len(raw.Bits))
		for i, bits := range raw.Bits {
			parts[i] = fmt.Sprintf("%v", scalarValue(d.Base, bits))
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	if len(raw.Bits) == 0 {
		return "[]"
	}
	v := scalarValue(d.Base, raw.Bits[0])
	if d.Spec != nil && d.Spec.ToText != nil {
		return d.Spec.ToText(v)
	}
	return fmt.Sprintf("[%v]", v)
}

// scalarValue interprets raw bits per the base type's kind and width.
func scalarValue(entry basetype.Entry, bits uint64) any {
	switch entry.Kind {
	case basetype.KindSigned:
		switch entry.Size {
		case 1:
			return int64(int8(bits))
		case 2:
			return int64(int16(bits))
		default:
			return int64(int32(bits))
		}
	case basetype.KindFloat:
		if entry.Size == 4 {
			return float64(math.Float32frombits(uint32(bits)))
		}
		return math.Float64frombits(bits)
	default:
		return bits
	}
}

func truncateNUL(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}
