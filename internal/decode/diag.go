package decode

// DiagnosticEntry is one traced field value: where it came from, what it
// resolved to, and its formatted value.
type DiagnosticEntry struct {
	MsgNum   uint16
	FieldNum byte
	Name     string
	TypeTag  byte
	Value    string
}

// DiagnosticSink receives traced entries during decode.
type DiagnosticSink interface {
	Append(DiagnosticEntry)
}

// Filter selects which fields reach the diagnostic sink. A nil Names set
// allows every field. Sentinel-valued fields are skipped unless
// IncludeUndefined is set.
type Filter struct {
	Names            map[string]struct{}
	IncludeUndefined bool
}

// Allows reports whether a resolved field name passes the allowlist.
func (f *Filter) Allows(name string) bool {
	if f.Names == nil {
		return true
	}
	_, ok := f.Names[name]
	return ok
}

// NewFilter builds a filter from a list of field names; an empty list
// allows all fields.
func NewFilter(names []string, includeUndefined bool) *Filter {
	f := &Filter{IncludeUndefined: includeUndefined}
	if len(names) > 0 {
		f.Names = make(map[string]struct{}, len(names))
		for _, n := range names {
			f.Names[n] = struct{}{}
		}
	}
	return f
}
