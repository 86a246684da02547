package profile

import (
	"sync"
)

// SchemaField describes one expected field of a message: its display name,
// the protocol type the profile declares for it, and optional converters.
// A nil converter means the raw value passes through unchanged.
type SchemaField struct {
	Name      string
	Type      byte
	ToMachine func(any) any
	ToText    func(any) string
}

// FieldSpec is either a Plain schema field or an Alternative whose real
// identity depends on another field's decoded value.
type FieldSpec interface {
	isFieldSpec()
}

// Plain wraps a field whose identity is fixed by the schema.
type Plain struct {
	SchemaField
}

// Alternative selects one of several schema fields based on the decoded
// value of the selector field. Default, when non-nil, is used for selector
// values with no variant entry.
type Alternative struct {
	Selector string
	Variants map[any]SchemaField
	Default  *SchemaField
}

func (Plain) isFieldSpec()       {}
func (Alternative) isFieldSpec() {}

// VariantFor returns the variant registered for the given selector value.
func (a Alternative) VariantFor(v any) (SchemaField, bool) {
	sf, ok := a.Variants[normalizeKey(v)]
	return sf, ok
}

// normalizeKey folds all integer widths onto uint64 so a selector decoded
// as uint8 still matches a variant keyed on a plain literal.
func normalizeKey(v any) any {
	switch n := v.(type) {
	case int:
		return uint64(n)
	case int8:
		return uint64(n)
	case int16:
		return uint64(n)
	case int32:
		return uint64(n)
	case int64:
		return uint64(n)
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	default:
		return v
	}
}

// Schema describes one message: its name and the specs of its known fields,
// keyed by field number.
type Schema struct {
	Name   string
	Number uint16
	Fields map[byte]FieldSpec
}

// Field returns the spec for a field number, or nil when the schema does
// not know the field.
func (s *Schema) Field(num byte) FieldSpec {
	if s == nil {
		return nil
	}
	return s.Fields[num]
}

// SelectorIsAlternative reports whether the given field name can only be
// produced by resolving an Alternative of this schema. Used to reject
// chained variant selectors.
func (s *Schema) SelectorIsAlternative(name string) bool {
	if s == nil {
		return false
	}
	for _, spec := range s.Fields {
		switch f := spec.(type) {
		case Plain:
			if f.Name == name {
				return false
			}
		case Alternative:
			for _, sf := range f.Variants {
				if sf.Name == name {
					return true
				}
			}
			if f.Default != nil && f.Default.Name == name {
				return true
			}
		}
	}
	return false
}

// Registry holds message schemas keyed by message number. It is mutated
// only while schemas are loaded; decoding treats it as read-only.
type Registry struct {
	mu      sync.RWMutex
	schemas map[uint16]*Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[uint16]*Schema)}
}

// Register stores a schema, replacing any previous entry for the number.
func (r *Registry) Register(s *Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.Number] = s
}

// Lookup returns the schema for a message number, or nil when unknown.
func (r *Registry) Lookup(num uint16) *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas[num]
}

// Has reports whether a schema is registered for the number.
func (r *Registry) Has(num uint16) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[num]
	return ok
}
