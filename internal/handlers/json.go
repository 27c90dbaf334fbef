package handlers

import "encoding/json"

// optionalUint64 is a tri-state JSON field: absent, explicit null, or a
// value. Needed where null carries meaning (clearing a weak reference).
type optionalUint64 struct {
	Present bool
	Value   *uint64
}

func (o *optionalUint64) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var v uint64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// optionalString mirrors optionalUint64 for string-valued fields.
type optionalString struct {
	Present bool
	Value   *string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
