package validation

import (
	"errors"
	"testing"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/stretchr/testify/assert"
)

type line struct {
	ID  string `validate:"required"`
	Qty int    `validate:"min=1"`
}

type request struct {
	Email string `validate:"required,email"`
	Items []line `validate:"required,min=1,dive"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(request{Email: "a@b.com", Items: []line{{ID: "p1", Qty: 1}}})
	assert.NoError(t, err)
}

func TestStruct_Invalid(t *testing.T) {
	err := Struct(request{Email: "nope", Items: []line{{ID: "", Qty: 0}}})

	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Contains(t, err.Error(), "request.Email failed on email")
	assert.Contains(t, err.Error(), "request.Items[0].Qty failed on min")
}
