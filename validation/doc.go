// Package validation validates request input.
//
// Entity payloads are validated with struct tags through go-playground's
// validator; field names in failures come from the json tag:
//
//	type Note struct {
//	    Title string `json:"title" validate:"required,max=200"`
//	}
//	err := validation.Validate(note)
//
// Query parameters are checked programmatically:
//
//	v := validation.New()
//	v.Min("page", page, 0).OneOf("sortDir", dir, []string{"asc", "desc"})
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
