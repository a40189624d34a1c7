package models

import "encoding/json"

// User represents a row of the users table. Name and Email are nil for NULL columns.
type User struct {
	ID    int64   `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserInput carries the writable fields of a user
type UserInput struct {
	Name  OptionalString `json:"name"`
	Email OptionalString `json:"email"`
}

// OptionalString tells an absent JSON key apart from an explicit null
type OptionalString struct {
	// Present is false when the key did not appear in the request
	Present bool
	// Value is nil for JSON null
	Value *string
}

// UnmarshalJSON is only called when the key is present, including for null
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Present = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Some returns a present, non-null OptionalString
func Some(s string) OptionalString {
	return OptionalString{Present: true, Value: &s}
}

// Null returns a present OptionalString holding JSON null
func Null() OptionalString {
	return OptionalString{Present: true}
}
