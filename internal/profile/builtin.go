package profile

import (
	"time"
)

// IdentityMessage is the well-known message that classifies the whole
// stream. IdentityField is its mandatory field.
const (
	IdentityMessage = "file_id"
	IdentityField   = "type"
)

// Message numbers from the device profile.
const (
	MsgFileID     = 0
	MsgSession    = 18
	MsgRecord     = 20
	MsgEvent      = 21
	MsgDeviceInfo = 23
)

// The device epoch: seconds in timestamp fields count from here.
var epoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)

// Builtin returns a registry preloaded with the built-in device profile.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(fileIDSchema())
	r.Register(sessionSchema())
	r.Register(recordSchema())
	r.Register(eventSchema())
	r.Register(deviceInfoSchema())
	return r
}

func fileIDSchema() *Schema {
	return &Schema{
		Name:   IdentityMessage,
		Number: MsgFileID,
		Fields: map[byte]FieldSpec{
			0: Plain{SchemaField{Name: "type", Type: 0x00, ToMachine: enumMachine(map[uint64]string{
				1:  "device",
				2:  "settings",
				3:  "sport",
				4:  "activity",
				5:  "workout",
				6:  "course",
				9:  "weight",
				10: "totals",
			})}},
			1: Plain{SchemaField{Name: "manufacturer", Type: 0x84, ToMachine: enumMachine(map[uint64]string{
				1:   "garmin",
				15:  "dynastream",
				255: "development",
			})}},
			2: Alternative{
				Selector: "manufacturer",
				Variants: map[any]SchemaField{
					"garmin":     {Name: "garmin_product", Type: 0x84},
					"dynastream": {Name: "garmin_product", Type: 0x84},
				},
				Default: &SchemaField{Name: "product", Type: 0x84},
			},
			3: Plain{SchemaField{Name: "serial_number", Type: 0x8C}},
			4: Plain{SchemaField{Name: "time_created", Type: 0x86, ToMachine: timestampMachine}},
		},
	}
}

func sessionSchema() *Schema {
	return &Schema{
		Name:   "session",
		Number: MsgSession,
		Fields: map[byte]FieldSpec{
			253: Plain{SchemaField{Name: "timestamp", Type: 0x86, ToMachine: timestampMachine}},
			2:   Plain{SchemaField{Name: "start_time", Type: 0x86, ToMachine: timestampMachine}},
			5: Plain{SchemaField{Name: "sport", Type: 0x00, ToMachine: enumMachine(map[uint64]string{
				0: "generic",
				1: "running",
				2: "cycling",
				5: "swimming",
			})}},
			7:  Plain{SchemaField{Name: "total_elapsed_time", Type: 0x86, ToMachine: scaleOffset(1000, 0)}},
			9:  Plain{SchemaField{Name: "total_distance", Type: 0x86, ToMachine: scaleOffset(100, 0)}},
			16: Plain{SchemaField{Name: "avg_heart_rate", Type: 0x02}},
			17: Plain{SchemaField{Name: "max_heart_rate", Type: 0x02}},
		},
	}
}

func recordSchema() *Schema {
	return &Schema{
		Name:   "record",
		Number: MsgRecord,
		Fields: map[byte]FieldSpec{
			253: Plain{SchemaField{Name: "timestamp", Type: 0x86, ToMachine: timestampMachine}},
			0:   Plain{SchemaField{Name: "position_lat", Type: 0x85, ToMachine: semicircles}},
			1:   Plain{SchemaField{Name: "position_long", Type: 0x85, ToMachine: semicircles}},
			2:   Plain{SchemaField{Name: "altitude", Type: 0x84, ToMachine: scaleOffset(5, 500)}},
			3:   Plain{SchemaField{Name: "heart_rate", Type: 0x02}},
			4:   Plain{SchemaField{Name: "cadence", Type: 0x02}},
			5:   Plain{SchemaField{Name: "distance", Type: 0x86, ToMachine: scaleOffset(100, 0)}},
			6:   Plain{SchemaField{Name: "speed", Type: 0x84, ToMachine: scaleOffset(1000, 0)}},
		},
	}
}

func eventSchema() *Schema {
	return &Schema{
		Name:   "event",
		Number: MsgEvent,
		Fields: map[byte]FieldSpec{
			253: Plain{SchemaField{Name: "timestamp", Type: 0x86, ToMachine: timestampMachine}},
			0: Plain{SchemaField{Name: "event", Type: 0x00, ToMachine: enumMachine(map[uint64]string{
				0:  "timer",
				3:  "workout",
				8:  "session",
				21: "recovery_hr",
			})}},
			1: Plain{SchemaField{Name: "event_type", Type: 0x00, ToMachine: enumMachine(map[uint64]string{
				0: "start",
				1: "stop",
				4: "stop_all",
			})}},
			3: Alternative{
				Selector: "event",
				Variants: map[any]SchemaField{
					"timer": {Name: "timer_trigger", Type: 0x00, ToMachine: enumMachine(map[uint64]string{
						0: "manual",
						1: "auto",
					})},
					"recovery_hr": {Name: "recovery_hr_bpm", Type: 0x86},
				},
				Default: &SchemaField{Name: "data", Type: 0x86},
			},
		},
	}
}

func deviceInfoSchema() *Schema {
	return &Schema{
		Name:   "device_info",
		Number: MsgDeviceInfo,
		Fields: map[byte]FieldSpec{
			253: Plain{SchemaField{Name: "timestamp", Type: 0x86, ToMachine: timestampMachine}},
			3:   Plain{SchemaField{Name: "serial_number", Type: 0x8C}},
			4:   Plain{SchemaField{Name: "product", Type: 0x84}},
			5:   Plain{SchemaField{Name: "software_version", Type: 0x84, ToMachine: scaleOffset(100, 0)}},
			27:  Plain{SchemaField{Name: "product_name", Type: 0x07}},
		},
	}
}

// enumMachine maps raw enum values onto their profile names; values with
// no entry pass through unchanged.
func enumMachine(names map[uint64]string) func(any) any {
	return func(v any) any {
		if n, ok := asUint64(v); ok {
			if name, ok := names[n]; ok {
				return name
			}
		}
		return v
	}
}

// scaleOffset converts raw to (raw/scale)-offset as float64.
func scaleOffset(scale, offset float64) func(any) any {
	return func(v any) any {
		f, ok := asFloat64(v)
		if !ok {
			return v
		}
		return f/scale - offset
	}
}

// semicircles converts the 32-bit angle unit to degrees.
func semicircles(v any) any {
	f, ok := asFloat64(v)
	if !ok {
		return v
	}
	return f * (180.0 / 2147483648.0)
}

func timestampMachine(v any) any {
	n, ok := asUint64(v)
	if !ok {
		return v
	}
	return epoch.Add(time.Duration(n) * time.Second).Format(time.RFC3339)
}

func asUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case uint64:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
