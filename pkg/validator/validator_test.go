package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(loginForm{Email: "a@x.com", Password: "Abc12345!"})
	assert.NoError(t, err)
}

func TestValidate_FieldErrors(t *testing.T) {
	err := Validate(loginForm{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
	assert.Contains(t, valErr.Error(), "field 'Email'")
}

func TestValidate_UsesJSONTagNames(t *testing.T) {
	type form struct {
		FirstName string `json:"first_name" validate:"required"`
	}

	err := Validate(form{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields(), "first_name")
}

func TestValidate_RequiredMessage(t *testing.T) {
	err := Validate(loginForm{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "is required", valErr.Fields()["Email"])
}
