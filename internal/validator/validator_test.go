package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&signup{Email: "a@b.test", Password: "password1", Quantity: 1}))

	err := v.Validate(&signup{Email: "nope", Password: "short"})
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"email must be a valid email",
		"password must be at least 8",
		"quantity must be greater than 0",
	}, verr.Fields)
}
