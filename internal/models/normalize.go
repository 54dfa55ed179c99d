package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TruthyFlag reports whether a decoded JSON value is one of the four
// representations the backend uses for a set flag: true, "true", 1, "1".
// Everything else, including nil, 0, "false" and absent values, is false.
// This is the single normalization point for boolean-like fields; callers
// must not re-implement the comparison inline.
func TruthyFlag(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		// encoding/json decodes numbers as float64
		return t == 1
	case int:
		return t == 1
	case json.Number:
		return t.String() == "1"
	default:
		return false
	}
}

// FlexBool is a boolean that tolerates the heterogeneous representations the
// backend returns for setup flags. It always marshals back as a plain bool,
// so a value that crossed any boundary once is stored normalized.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*b = false
		return nil
	}
	*b = FlexBool(TruthyFlag(raw))
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

func (b FlexBool) Bool() bool { return bool(b) }

// FlexID is an identifier the backend may send as a JSON number or string.
// It is kept as its canonical decimal string form.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*id = FlexID(asString)
		return nil
	}
	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*id = FlexID(asNumber.String())
		return nil
	}
	*id = ""
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id FlexID) String() string { return string(id) }

// Int returns the identifier as a positive integer, or 0 when it is missing
// or not a usable number. Navigation parameters require a positive value.
func (id FlexID) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(id)))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func (id FlexID) Valid() bool { return id.Int() > 0 }
