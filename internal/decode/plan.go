package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/davidwul/gofit/internal/fieldef"
)

// Plan is the decode plan for one occurrence layout: the message number,
// byte order, and ordered field slots parsed from the wire's definition
// section. A plan is built once and read-only during decode.
type Plan struct {
	MsgNum    uint16
	BigEndian bool
	Fields    []fieldef.Definition
}

// ByteOrder returns the binary order the occurrence's payload uses.
func (p *Plan) ByteOrder() binary.ByteOrder {
	if p.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ParsePlan reads a definition section from the front of data and returns
// the plan plus the remaining payload bytes. Layout:
// [reserved:1][arch:1][message number:2, per arch][field count:1][3 bytes per field].
func ParsePlan(data []byte) (Plan, []byte, error) {
	if len(data) < 5 {
		return Plan{}, nil, fmt.Errorf("definition section truncated: %d bytes", len(data))
	}
	arch := data[1]
	if arch > 1 {
		return Plan{}, nil, fmt.Errorf("%w: unknown architecture 0x%02X", ErrCorruption, arch)
	}
	p := Plan{BigEndian: arch == 1}
	p.MsgNum = p.ByteOrder().Uint16(data[2:4])
	count := int(data[4])
	need := 5 + count*fieldef.WireSize
	if len(data) < need {
		return Plan{}, nil, fmt.Errorf("definition section truncated: %d fields need %d bytes, got %d",
			count, need, len(data))
	}
	p.Fields = make([]fieldef.Definition, 0, count)
	for i := 0; i < count; i++ {
		off := 5 + i*fieldef.WireSize
		d, err := fieldef.FromWire(data[off : off+fieldef.WireSize])
		if err != nil {
			return Plan{}, nil, wireErr(p.MsgNum, err)
		}
		p.Fields = append(p.Fields, d)
	}
	return p, data[need:], nil
}

// wireErr folds field definition failures into the fatal taxonomy.
func wireErr(msgNum uint16, err error) error {
	switch {
	case errors.Is(err, fieldef.ErrCorruptSize):
		return fmt.Errorf("%w: message %d: %v", ErrCorruption, msgNum, err)
	default:
		return fmt.Errorf("%w: message %d: %v", ErrConfiguration, msgNum, err)
	}
}

// readSlot materializes one slot's raw value from the byte source.
func readSlot(r io.Reader, d *fieldef.Definition, order binary.ByteOrder) (fieldef.Raw, error) {
	if d.Base.Size == 0 {
		buf := make([]byte, int(d.Size))
		if _, err := io.ReadFull(r, buf); err != nil {
			return fieldef.Raw{}, fmt.Errorf("%w: field %d: short read: %v", ErrCorruption, d.Num, err)
		}
		return fieldef.Raw{Str: string(buf)}, nil
	}
	n := d.Elements()
	bits := make([]uint64, n)
	buf := make([]byte, d.Base.Size)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return fieldef.Raw{}, fmt.Errorf("%w: field %d: short read: %v", ErrCorruption, d.Num, err)
		}
		switch d.Base.Size {
		case 1:
			bits[i] = uint64(buf[0])
		case 2:
			bits[i] = uint64(order.Uint16(buf))
		case 4:
			bits[i] = uint64(order.Uint32(buf))
		default:
			bits[i] = order.Uint64(buf)
		}
	}
	return fieldef.Raw{Bits: bits}, nil
}
