package dto

import "encoding/json"

// Optional distinguishes an absent JSON field from an explicit null. Needed by
// the NC PATCH payload so clients can clear assigned_to_user_id.
type Optional[T any] struct {
	Set   bool // field was present in the payload
	Valid bool // field was present and non-null
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
