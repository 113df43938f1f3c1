package validation

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kbukum/recordkit/errors"
)

// Validator accumulates field failures from chained checks. Only the first
// failure per field is reported.
type Validator struct {
	fields map[string]string
	order  []string
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{fields: map[string]string{}}
}

// AddError records message for field unless field already failed.
func (v *Validator) AddError(field, message string) {
	if _, failed := v.fields[field]; failed {
		return
	}
	v.fields[field] = message
	v.order = append(v.order, field)
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool { return len(v.order) > 0 }

// Fields lists the failed fields in the order they first failed.
func (v *Validator) Fields() []string { return slices.Clone(v.order) }

// Validate returns a VALIDATION_ERROR carrying every failure, or nil.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return errors.Validation(maps.Clone(v.fields))
}

// Required fails a blank string.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(strings.TrimSpace(value) != "", field, "is required")
}

// Min fails a value below lo.
func (v *Validator) Min(field string, value, lo int) *Validator {
	return v.Custom(value >= lo, field, fmt.Sprintf("must be at least %d", lo))
}

// Max fails a value above hi.
func (v *Validator) Max(field string, value, hi int) *Validator {
	return v.Custom(value <= hi, field, fmt.Sprintf("must be %d or less", hi))
}

// OneOf fails a non-empty value outside allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	ok := value == "" || slices.Contains(allowed, value)
	return v.Custom(ok, field, "must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message for field when ok is false.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}
