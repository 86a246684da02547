package gofit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidwul/gofit/internal/testutil"
)

func TestDecodeHexStripsSeparators(t *testing.T) {
	data, err := decodeHexString(" |0000_1400 05| FD0486 030102 060284 020284 000485 100E000096C4091C0CFFFFFF7F ")
	require.NoError(t, err)
	require.Len(t, data, 33)
}

func TestDecodeHexOddLength(t *testing.T) {
	_, err := decodeHexString("ABC")
	require.Error(t, err)
}

func TestDecodeUnknownMessage(t *testing.T) {
	// message 65000 (0xFDE8), one uint8 field, value 7
	result, err := DecodeHex("0000E8FD0100010207")
	require.NoError(t, err)
	require.Equal(t, "message65000", result.Message)
	require.Equal(t, uint16(65000), result.Number)
	require.Equal(t, uint64(7), result.Fields["field0"])
	require.Nil(t, result.StreamType)
}

func TestDecodeWithTrace(t *testing.T) {
	hexStr := testutil.LoadHex(t, "occurrences/record.hex")
	result, err := DecodeHexWithOptions(hexStr, Options{
		Trace:  true,
		Fields: []string{"heart_rate"},
	})
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	require.Equal(t, "heart_rate", d.Name)
	require.Equal(t, byte(3), d.FieldNum)
	require.Equal(t, "[150]", d.Value)
}

func TestDecodeWithTraceIncludesUndefined(t *testing.T) {
	hexStr := testutil.LoadHex(t, "occurrences/record.hex")
	result, err := DecodeHexWithOptions(hexStr, Options{
		Trace:            true,
		Fields:           []string{"position_lat"},
		IncludeUndefined: true,
	})
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	require.Equal(t, "position_lat", result.Diagnostics[0].Name)
}

func TestDecodeWithSchemaOverlay(t *testing.T) {
	overlay := `messages:
  - number: 65280
    name: vendor_status
    fields:
      - number: 0
        name: battery
        type: uint8
        scale: 2
      - number: 1
        name: mode
        type: enum
        values:
          0: idle
          1: active
`
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

	// message 65280 (0x00FF little endian), battery=180, mode=1
	result, err := DecodeHexWithOptions("000000FF02000102010100B401", Options{SchemaFile: path})
	require.NoError(t, err)
	require.Equal(t, "vendor_status", result.Message)
	require.Equal(t, float64(90), result.Fields["battery"])
	require.Equal(t, "active", result.Fields["mode"])
}

func TestFieldSet(t *testing.T) {
	result := Result{Fields: map[string]any{
		"heart_rate": uint64(150),
		"speed":      2.5,
		"name":       "morning_ride",
	}}
	fs := result.FieldSet()

	f, err := fs.Float("speed")
	require.NoError(t, err)
	require.Equal(t, 2.5, f)

	i, err := fs.Int("heart_rate")
	require.NoError(t, err)
	require.Equal(t, int64(150), i)

	s, err := fs.String("name")
	require.NoError(t, err)
	require.Equal(t, "morning_ride", s)

	_, err = fs.Float("missing")
	require.Error(t, err)
	_, err = fs.Bool("name")
	require.Error(t, err)

	require.Equal(t, result.Fields, fs.Map())
	v, ok := fs.Raw("speed")
	require.True(t, ok)
	require.Equal(t, 2.5, v)
}

func TestResultString(t *testing.T) {
	result := Result{Message: "record", Number: 20, Fields: map[string]any{"heart_rate": uint64(150)}}
	out := result.String()
	require.Contains(t, out, `"message": "record"`)
	require.Contains(t, out, `"heart_rate": 150`)
}
