package profile

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/davidwul/gofit/internal/basetype"
)

// Overlay files describe extra message schemas in YAML, so vendor-specific
// messages can be named without recompiling:
//
//	messages:
//	  - number: 65280
//	    name: vendor_status
//	    fields:
//	      - number: 0
//	        name: battery
//	        type: uint8
//	        scale: 2
//	      - number: 1
//	        name: mode
//	        type: enum
//	        values:
//	          0: idle
//	          1: active
//
// Overlays carry plain fields only; alternatives stay in the built-in
// profile.
type overlayFile struct {
	Messages []overlayMessage `yaml:"messages"`
}

type overlayMessage struct {
	Number uint16         `yaml:"number"`
	Name   string         `yaml:"name"`
	Fields []overlayField `yaml:"fields"`
}

type overlayField struct {
	Number byte              `yaml:"number"`
	Name   string            `yaml:"name"`
	Type   string            `yaml:"type"`
	Scale  float64           `yaml:"scale"`
	Offset float64           `yaml:"offset"`
	Values map[uint64]string `yaml:"values"`
}

// LoadOverlay reads a YAML overlay file and registers its schemas.
// Messages already present in the registry are replaced with a warning.
func LoadOverlay(r *Registry, path string, log logrus.FieldLogger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema overlay: %w", err)
	}
	var file overlayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse schema overlay %s: %w", path, err)
	}
	for _, msg := range file.Messages {
		if msg.Name == "" {
			return fmt.Errorf("schema overlay %s: message %d has no name", path, msg.Number)
		}
		schema, err := msg.toSchema()
		if err != nil {
			return fmt.Errorf("schema overlay %s: %w", path, err)
		}
		if r.Has(msg.Number) && log != nil {
			log.Warnf("schema overlay overrides message %d (%s)", msg.Number, msg.Name)
		}
		r.Register(schema)
	}
	return nil
}

func (m overlayMessage) toSchema() (*Schema, error) {
	fields := make(map[byte]FieldSpec, len(m.Fields))
	for _, f := range m.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("message %s: field %d has no name", m.Name, f.Number)
		}
		entry, ok := basetype.ByName(f.Type)
		if !ok {
			return nil, fmt.Errorf("message %s field %s: unknown type %q", m.Name, f.Name, f.Type)
		}
		sf := SchemaField{Name: f.Name, Type: entry.Tag}
		switch {
		case len(f.Values) > 0:
			sf.ToMachine = enumMachine(f.Values)
		case f.Scale != 0 && f.Scale != 1:
			sf.ToMachine = scaleOffset(f.Scale, f.Offset)
		case f.Offset != 0:
			sf.ToMachine = scaleOffset(1, f.Offset)
		}
		fields[f.Number] = Plain{sf}
	}
	return &Schema{Name: m.Name, Number: m.Number, Fields: fields}, nil
}
