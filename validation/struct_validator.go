package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/recordkit/errors"
)

var tagValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return v
})

// fieldName reports the json name of a field, falling back to the snake
// cased Go name for untagged or hidden fields.
func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return toSnakeCase(f.Name)
	}
	return name
}

// Validate checks s against its `validate` tags and reports failures as a
// VALIDATION_ERROR keyed by field name.
func Validate(s any) error {
	fieldErrs, err := check(s)
	if err != nil {
		return errors.Validation(nil).WithCause(err)
	}
	if len(fieldErrs) == 0 {
		return nil
	}
	v := New()
	for _, e := range fieldErrs {
		v.AddError(e.Field(), describe(e))
	}
	return v.Validate()
}

// check separates per-field failures from misuse such as passing a
// non-struct.
func check(s any) (validator.ValidationErrors, error) {
	err := tagValidator().Struct(s)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		return fieldErrs, nil
	}
	return nil, err
}

var tagMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "must be at least ",
	"max":      "must be at most ",
	"gte":      "must be greater than or equal to ",
	"lte":      "must be less than or equal to ",
	"oneof":    "must be one of: ",
}

func describe(e validator.FieldError) string {
	msg, ok := tagMessages[e.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.HasSuffix(msg, " ") {
		return msg + e.Param()
	}
	return msg
}

func toSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
