package model

import (
	"encoding/json"
	"strconv"
)

// Value is a value written to a parameter. Text values travel as JSON strings and
// checkbox values as JSON booleans.
type Value struct {
	text   string
	isBool bool
}

// StringValue is a text value.
func StringValue(s string) Value {
	return Value{text: s}
}

// BoolValue is a checkbox value.
func BoolValue(b bool) Value {
	return Value{text: strconv.FormatBool(b), isBool: true}
}

// IsBool reports whether v is a checkbox value.
func (v Value) IsBool() bool {
	return v.isBool
}

// String is the stored form of v, as found in Parameter.Value.
func (v Value) String() string {
	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isBool {
		return []byte(v.text), nil
	}

	return json.Marshal(v.text)
}
