package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/recordkit/errors"
)

func TestValidator_Chain(t *testing.T) {
	v := New().
		Min("page", -1, 0).
		Max("limit", 5000, 1000).
		OneOf("sortDir", "sideways", []string{"asc", "desc"}).
		Required("password", "  ")

	require.True(t, v.HasErrors())
	assert.Equal(t, []string{"page", "limit", "sortDir", "password"}, v.Fields())
	appErr := v.Validate()
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)

	fields := appErr.Details["fields"].(map[string]string)
	assert.Equal(t, "must be at least 0", fields["page"])
	assert.Equal(t, "must be 1000 or less", fields["limit"])
	assert.Contains(t, fields["sortDir"], "asc, desc")
	assert.Equal(t, "is required", fields["password"])
}

func TestValidator_NoErrors(t *testing.T) {
	v := New().
		Min("page", 0, 0).
		OneOf("sortDir", "", []string{"asc", "desc"}).
		Custom(true, "x", "never")
	assert.False(t, v.HasErrors())
	assert.Nil(t, v.Validate())
}

type sample struct {
	Title    string `json:"title" validate:"required,max=5"`
	Email    string `json:"email" validate:"omitempty,email"`
	Priority int    `json:"priority" validate:"gte=0,lte=3"`
	NoTag    string `validate:"required"`
}

func TestValidate_Struct(t *testing.T) {
	err := Validate(sample{Title: "toolong", Email: "nope", Priority: 9})
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	fields := appErr.Details["fields"].(map[string]string)
	assert.Equal(t, "must be at most 5", fields["title"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be less than or equal to 3", fields["priority"])
	assert.Equal(t, "is required", fields["no_tag"])
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(sample{Title: "ok", Priority: 1, NoTag: "x"}))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "created_by_id", toSnakeCase("CreatedById"))
	assert.Equal(t, "title", toSnakeCase("Title"))
}

type limits struct {
	Cost int    `mapstructure:"cost" validate:"min=4,max=31"`
	Mode string `validate:"oneof=fast slow"`
}

func TestConfig(t *testing.T) {
	assert.NoError(t, Config("hash", limits{Cost: 10, Mode: "fast"}))

	err := Config("hash", limits{Cost: 40, Mode: "fast"})
	require.Error(t, err)
	assert.Equal(t, "hash.cost must be at most 31 (got: 40)", err.Error())

	err = Config("hash", limits{Cost: 2, Mode: "other"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hash.cost must be at least 4")
	assert.Contains(t, err.Error(), "hash.mode must be one of: fast slow")
}
