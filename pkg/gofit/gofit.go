// Package gofit decodes single activity-device message occurrences: a
// self-describing definition section followed by the payload bytes.
package gofit

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/davidwul/gofit/internal/decode"
)

// Result captures one decoded occurrence.
type Result struct {
	Message     string
	Number      uint16
	StreamType  any
	Fields      map[string]any
	Diagnostics []Diagnostic
}

// Diagnostic is one traced field value.
type Diagnostic struct {
	MsgNum   uint16
	FieldNum byte
	Name     string
	TypeTag  byte
	Value    string
}

// String renders a human-readable representation of the result.
func (r Result) String() string {
	summary := map[string]any{
		"message": r.Message,
		"number":  r.Number,
	}
	if r.StreamType != nil {
		summary["stream_type"] = r.StreamType
	}
	if len(r.Fields) > 0 {
		summary["fields"] = r.Fields
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("message: %s number:%d (marshal error: %v)", r.Message, r.Number, err)
	}
	return string(data)
}

// DecodeHex decodes a hex-encoded occurrence with default options.
func DecodeHex(raw string) (Result, error) {
	return DecodeHexWithOptions(raw, Options{})
}

// DecodeHexWithOptions decodes a hex-encoded occurrence. Whitespace and
// the common '|' and '_' separators are stripped from the input.
func DecodeHexWithOptions(raw string, opts Options) (Result, error) {
	data, err := decodeHexString(raw)
	if err != nil {
		return Result{}, err
	}
	return DecodeBytes(data, opts)
}

// DecodeBytes decodes one occurrence from its wire bytes: the definition
// section followed by the payload.
func DecodeBytes(data []byte, opts Options) (Result, error) {
	registry, err := opts.registry()
	if err != nil {
		return Result{}, err
	}
	plan, payload, err := decode.ParsePlan(data)
	if err != nil {
		return Result{}, err
	}

	capture := &entityCapture{}
	sink := &diagnosticBuffer{}
	dec := decode.New(registry, opts.logger())
	dec.Entity = capture
	if opts.Trace {
		dec.Sink = sink
		dec.Filter = decode.NewFilter(opts.Fields, opts.IncludeUndefined)
	}

	rec, err := dec.Decode(&plan, bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	result := Result{
		Message:     rec.Name,
		Number:      rec.MsgNum,
		StreamType:  capture.streamType,
		Fields:      rec.Fields,
		Diagnostics: sink.entries,
	}
	return result, nil
}

// entityCapture records the stream classification set by the identity
// message.
type entityCapture struct {
	streamType any
}

func (c *entityCapture) SetType(v any) { c.streamType = v }

func (c *entityCapture) NewRecord(string) *decode.Record { return nil }

type diagnosticBuffer struct {
	entries []Diagnostic
}

func (b *diagnosticBuffer) Append(e decode.DiagnosticEntry) {
	b.entries = append(b.entries, Diagnostic{
		MsgNum:   e.MsgNum,
		FieldNum: e.FieldNum,
		Name:     e.Name,
		TypeTag:  e.TypeTag,
		Value:    e.Value,
	})
}

func decodeHexString(input string) ([]byte, error) {
	clean := stripSeparators(input)
	if strings.HasPrefix(strings.ToUpper(clean), "0X") {
		clean = clean[2:]
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex occurrence must contain an even number of digits, got %d", len(clean))
	}
	decoded := make([]byte, len(clean)/2)
	if _, err := hex.Decode(decoded, []byte(clean)); err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded, nil
}

func stripSeparators(s string) string {
	builder := strings.Builder{}
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '|' || r == '_' {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
