package profile

import (
	"testing"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	if r.Lookup(20) != nil {
		t.Fatal("empty registry returned a schema")
	}
	r.Register(&Schema{Name: "record", Number: 20})
	s := r.Lookup(20)
	if s == nil || s.Name != "record" {
		t.Fatalf("Lookup(20) = %+v", s)
	}
	if !r.Has(20) || r.Has(21) {
		t.Fatal("Has wrong")
	}
}

func TestBuiltinProfile(t *testing.T) {
	r := Builtin()
	fileID := r.Lookup(MsgFileID)
	if fileID == nil || fileID.Name != IdentityMessage {
		t.Fatalf("file_id schema missing: %+v", fileID)
	}
	if _, ok := fileID.Field(2).(Alternative); !ok {
		t.Fatal("file_id product field should be an alternative")
	}
	if fileID.Field(200) != nil {
		t.Fatal("unknown field number should return nil")
	}
	if r.Lookup(MsgRecord) == nil || r.Lookup(MsgEvent) == nil {
		t.Fatal("builtin profile incomplete")
	}
}

func TestVariantForNormalizesIntegerKeys(t *testing.T) {
	alt := Alternative{
		Selector: "event",
		Variants: map[any]SchemaField{
			uint64(1): {Name: "one"},
			"garmin":  {Name: "product"},
		},
	}
	if sf, ok := alt.VariantFor(uint8(1)); !ok || sf.Name != "one" {
		t.Fatalf("uint8 key miss: %+v ok=%v", sf, ok)
	}
	if sf, ok := alt.VariantFor(int64(1)); !ok || sf.Name != "one" {
		t.Fatalf("int64 key miss: %+v ok=%v", sf, ok)
	}
	if sf, ok := alt.VariantFor("garmin"); !ok || sf.Name != "product" {
		t.Fatalf("string key miss: %+v ok=%v", sf, ok)
	}
	if _, ok := alt.VariantFor(uint64(9)); ok {
		t.Fatal("unexpected variant hit")
	}
}

func TestSelectorIsAlternative(t *testing.T) {
	s := &Schema{
		Name:   "m",
		Number: 1,
		Fields: map[byte]FieldSpec{
			0: Plain{SchemaField{Name: "mode"}},
			1: Alternative{
				Selector: "mode",
				Variants: map[any]SchemaField{uint64(0): {Name: "alpha"}},
				Default:  &SchemaField{Name: "alpha_default"},
			},
		},
	}
	if s.SelectorIsAlternative("mode") {
		t.Fatal("plain selector flagged as alternative")
	}
	if !s.SelectorIsAlternative("alpha") {
		t.Fatal("variant name not flagged as alternative")
	}
	if !s.SelectorIsAlternative("alpha_default") {
		t.Fatal("default name not flagged as alternative")
	}
}

func TestConverters(t *testing.T) {
	conv := scaleOffset(1000, 0)
	if v := conv(uint64(2500)); v != 2.5 {
		t.Fatalf("scale conversion = %v", v)
	}
	conv = scaleOffset(5, 500)
	if v := conv(uint64(3100)); v != float64(120) {
		t.Fatalf("scale+offset conversion = %v", v)
	}

	enum := enumMachine(map[uint64]string{1: "garmin"})
	if v := enum(uint64(1)); v != "garmin" {
		t.Fatalf("enum conversion = %v", v)
	}
	if v := enum(uint64(7)); v != uint64(7) {
		t.Fatalf("enum fallback = %v", v)
	}

	if v := timestampMachine(uint64(86400)); v != "1990-01-01T00:00:00Z" {
		t.Fatalf("timestamp conversion = %v", v)
	}
}
