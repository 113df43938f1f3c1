package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Scope is an access level granted to a user.
type Scope = string

const (
	ScopeAdmin Scope = "admin"
	ScopeUser  Scope = "user"
)

// Scopes is a set of scopes. It is stored as a space-delimited string and
// encoded in JSON as an array; a space-delimited JSON string is accepted on
// input as well.
type Scopes []string

// Has reports whether scope is in the set.
func (s Scopes) Has(scope string) bool {
	return slices.Contains(s, scope)
}

// HasAll reports whether every required scope is in the set. An empty
// requirement is always satisfied.
func (s Scopes) HasAll(required ...string) bool {
	for _, r := range required {
		if !s.Has(r) {
			return false
		}
	}
	return true
}

// String returns the space-delimited form.
func (s Scopes) String() string {
	return strings.Join(s, " ")
}

// Value implements driver.Valuer.
func (s Scopes) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *Scopes) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = nil
	case string:
		*s = strings.Fields(v)
	case []byte:
		*s = strings.Fields(string(v))
	default:
		return fmt.Errorf("models: cannot scan %T into Scopes", src)
	}
	return nil
}

// MarshalJSON encodes the set as an array, never null.
func (s Scopes) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// UnmarshalJSON accepts an array of scopes or a space-delimited string.
func (s *Scopes) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("models: scopes must be an array or a space-delimited string")
	}
	*s = strings.Fields(joined)
	return nil
}
