package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind tells which of the possible representations a Value holds.
type Kind uint8

const (
	// KindUndefined is the kind of the zero Value.
	KindUndefined Kind = iota
	// KindString is the kind of values built with String.
	KindString
	// KindInt is the kind of values built with Int.
	KindInt
)

/*
Value is a discrete value a feature or a label can take. It holds either
a string or an integer code, and two values are equal only if both their
kind and their content are. Values are comparable, so they can be used as
map keys.

The zero Value is undefined. It is not a legal value for any feature and is
returned as Unknown by predictions that cannot be made.
*/
type Value struct {
	kind Kind
	s    string
	i    int64
}

// Unknown is the undefined Value.
var Unknown = Value{}

// String takes a string and returns a Value holding it.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Int takes an int64 and returns a Value holding it.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

/*
ValueOf takes an arbitrary value, as decoded from YAML, JSON or a database
driver, and returns the corresponding Value. Strings become string values,
integers (and floats without fractional part) become int values, nil
becomes Unknown. Any other type returns an error.
*/
func ValueOf(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Unknown, nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case []byte:
		return String(string(v)), nil
	case int:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return Unknown, fmt.Errorf("value %v overflows int64", v)
		}
		return Int(int64(v)), nil
	case float64:
		if v != float64(int64(v)) {
			return Unknown, fmt.Errorf("value %v is not an integer", v)
		}
		return Int(int64(v)), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return Unknown, fmt.Errorf("value %v is not an integer", v)
		}
		return Int(i), nil
	}
	return Unknown, fmt.Errorf("unsupported value %v of type %T", v, v)
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Defined returns whether the value is not Unknown.
func (v Value) Defined() bool {
	return v.kind != KindUndefined
}

// Int returns the integer held by the value and true, or 0 and false
// if the value is not an int value.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Interface returns the value as a string, an int64 or nil.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	}
	return nil
}

// String returns the textual representation of the value. Unknown values
// are represented with the string "unknown".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	}
	return "unknown"
}

// GoString makes string and int values distinguishable in %#v output.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("feature.String(%q)", v.s)
	case KindInt:
		return fmt.Sprintf("feature.Int(%d)", v.i)
	}
	return "feature.Unknown"
}

// MarshalJSON encodes string values as JSON strings, int values as
// JSON numbers and Unknown as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	value, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = value
	return nil
}

// MarshalYAML returns the string or int64 held by the value.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// UnmarshalYAML decodes integer scalars as int values and any other
// scalar as a string value.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch raw := raw.(type) {
	case int, int64:
		value, err := ValueOf(raw)
		if err != nil {
			return err
		}
		*v = value
	case nil:
		*v = Unknown
	default:
		*v = String(fmt.Sprintf("%v", raw))
	}
	return nil
}
