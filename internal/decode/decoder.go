// Package decode turns a decode plan plus payload bytes into a named
// record, resolving each field's identity against the message schemas.
package decode

import (
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/davidwul/gofit/internal/fieldef"
	"github.com/davidwul/gofit/internal/profile"
)

// Record is one decoded occurrence: the resolved message name and the
// converted field values. Map insertion order carries no meaning.
type Record struct {
	Name   string
	MsgNum uint16
	Fields map[string]any
}

// EntityContext receives the stream classification when the identity
// message decodes, and may supply the output record.
type EntityContext interface {
	SetType(v any)
	NewRecord(name string) *Record
}

// Decoder decodes occurrences against a read-only schema registry. One
// instance accumulates a single in-progress record per Decode call and is
// not reentrant; use separate instances for parallel decodes.
type Decoder struct {
	Registry *profile.Registry
	Log      logrus.FieldLogger
	Sink     DiagnosticSink
	Filter   *Filter
	Entity   EntityContext
}

// New returns a decoder over the given registry.
func New(reg *profile.Registry, log logrus.FieldLogger) *Decoder {
	return &Decoder{Registry: reg, Log: log}
}

// Decode reads one occurrence's payload from r per the plan and returns
// the decoded record.
//
// Raw slot values are read in strict wire order. Identity resolution then
// runs regular fields before alternatives, each group by ascending field
// number, so an alternative's selector is already converted when the
// alternative resolves. Conversion and output happen per field as it
// resolves.
func (dec *Decoder) Decode(p *Plan, r io.Reader) (*Record, error) {
	schema := dec.Registry.Lookup(p.MsgNum)
	name := fmt.Sprintf("message%d", p.MsgNum)
	if schema != nil {
		name = schema.Name
	} else if dec.Log != nil {
		dec.Log.Warnf("unknown message number %d, decoding as %s", p.MsgNum, name)
	}
	log := dec.Log
	if log != nil {
		log = log.WithField("message", name)
	}

	order := p.ByteOrder()
	raws := make([]fieldef.Raw, len(p.Fields))
	for i := range p.Fields {
		raw, err := readSlot(r, &p.Fields[i], order)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", name, err)
		}
		raws[i] = raw
	}

	rec := dec.newRecord(name)
	rec.MsgNum = p.MsgNum

	// Alternatives last, else ascending field number. The order is
	// load-bearing: an alternative reads its selector's converted value
	// from the in-progress record.
	idx := make([]int, len(p.Fields))
	isAlt := make([]bool, len(p.Fields))
	for i := range p.Fields {
		idx[i] = i
		_, isAlt[i] = schema.Field(p.Fields[i].Num).(profile.Alternative)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if isAlt[ia] != isAlt[ib] {
			return !isAlt[ia]
		}
		return p.Fields[ia].Num < p.Fields[ib].Num
	})

	for _, i := range idx {
		// Resolution works on a copy so the plan stays read-only and can
		// back other occurrences of the same layout.
		f := p.Fields[i]
		var sf *profile.SchemaField
		switch spec := schema.Field(f.Num).(type) {
		case profile.Plain:
			plain := spec.SchemaField
			sf = &plain
		case profile.Alternative:
			variant, err := dec.resolveAlternative(schema, name, &f, spec, rec)
			if err != nil {
				return nil, err
			}
			sf = variant
		}
		f.ResolveIdentity(sf, log)
		if v := f.ToMachine(raws[i]); v != nil {
			rec.Fields[f.Name] = v
		}
		dec.trace(p, &f, raws[i])
	}

	if name == profile.IdentityMessage {
		v, ok := rec.Fields[profile.IdentityField]
		if !ok {
			return nil, fmt.Errorf("%w: %s message missing mandatory %q field",
				ErrCorruption, profile.IdentityMessage, profile.IdentityField)
		}
		if dec.Entity != nil {
			dec.Entity.SetType(v)
		}
	}
	return rec, nil
}

func (dec *Decoder) newRecord(name string) *Record {
	if dec.Entity != nil {
		if rec := dec.Entity.NewRecord(name); rec != nil {
			if rec.Fields == nil {
				rec.Fields = make(map[string]any)
			}
			return rec
		}
	}
	return &Record{Name: name, Fields: make(map[string]any)}
}

func (dec *Decoder) resolveAlternative(schema *profile.Schema, msgName string, f *fieldef.Definition, alt profile.Alternative, rec *Record) (*profile.SchemaField, error) {
	if schema.SelectorIsAlternative(alt.Selector) {
		return nil, fmt.Errorf("%w: message %s field %d: selector %q is itself an alternative, chained variants are unsupported",
			ErrConfiguration, msgName, f.Num, alt.Selector)
	}
	sel, present := rec.Fields[alt.Selector]
	if present {
		if variant, ok := alt.VariantFor(sel); ok {
			return &variant, nil
		}
	}
	if alt.Default != nil {
		def := *alt.Default
		return &def, nil
	}
	return nil, fmt.Errorf("%w: message %s: no variant of field %d matches selector %s=%v and no default exists",
		ErrCorruption, msgName, f.Num, alt.Selector, sel)
}

func (dec *Decoder) trace(p *Plan, f *fieldef.Definition, raw fieldef.Raw) {
	if dec.Sink == nil || dec.Filter == nil {
		return
	}
	if !dec.Filter.Allows(f.Name) {
		return
	}
	if f.Undefined(raw) && !dec.Filter.IncludeUndefined {
		return
	}
	dec.Sink.Append(DiagnosticEntry{
		MsgNum:   p.MsgNum,
		FieldNum: f.Num,
		Name:     f.Name,
		TypeTag:  f.Base.Tag,
		Value:    f.ToText(raw),
	})
}
