package dto

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent JSON field, an explicit null and a value.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		o.Value = ""
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func Some(v string) OptionalString {
	return OptionalString{Set: true, Value: v}
}

func Null() OptionalString {
	return OptionalString{Set: true, Null: true}
}
