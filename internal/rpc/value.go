package rpc

import "encoding/json"

// Value is a generic broker value: a string, an integer, or a nested map.
// The zero Value marshals as JSON null and reads as empty from every accessor.
type Value struct {
	raw any
}

// Map is the container kind used for request parameters and results.
type Map map[string]Value

// String wraps a string scalar.
func String(s string) Value { return Value{raw: s} }

// Int wraps an integer scalar.
func Int(i int64) Value { return Value{raw: i} }

// FromMap wraps a container.
func FromMap(m Map) Value { return Value{raw: m} }

// IsNil reports whether the value carries nothing.
func (v Value) IsNil() bool { return v.raw == nil }

// AsString returns the string form of the value, or "" for non-strings.
func (v Value) AsString() string {
	s, _ := v.raw.(string)
	return s
}

// AsInt32 returns the value as a signed 32-bit integer, or 0 when the value
// is not numeric.
func (v Value) AsInt32() int32 {
	switch n := v.raw.(type) {
	case int64:
		return int32(n)
	case float64:
		return int32(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0
		}
		return int32(i)
	default:
		return 0
	}
}

// AsMap returns the container form of the value. Non-map values yield an
// empty map, so lookups on malformed responses read as "key absent" rather
// than panicking.
func (v Value) AsMap() Map {
	if m, ok := v.raw.(Map); ok {
		return m
	}
	return Map{}
}

// Get looks up a key in the container form of the value.
func (v Value) Get(key string) (Value, bool) {
	val, ok := v.AsMap()[key]
	return val, ok
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	v.raw = normalize(decoded)
	return nil
}

// normalize rewrites decoded JSON containers into Map so that accessors see a
// single container representation regardless of origin.
func normalize(decoded any) any {
	m, ok := decoded.(map[string]any)
	if !ok {
		return decoded
	}
	out := make(Map, len(m))
	for k, val := range m {
		out[k] = Value{raw: normalize(val)}
	}
	return out
}
