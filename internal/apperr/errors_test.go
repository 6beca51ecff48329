package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{nil, ""},
		{NotFound("order"), "NOT_FOUND"},
		{Forbidden("not your client"), "FORBIDDEN"},
		{Conflict("email taken"), "CONFLICT"},
		{Invalid("qty %d", 0), "VALIDATION"},
		{fmt.Errorf("verify: %w", ErrUnauthenticated), "UNAUTHENTICATED"},
		{&InsufficientStockError{ProductName: "P"}, "INSUFFICIENT_STOCK"},
		{errors.New("boom"), "INTERNAL"},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, Code(c.err), "%v", c.err)
	}
}

func TestInsufficientStockError(t *testing.T) {
	err := fmt.Errorf("reserve: %w", &InsufficientStockError{ProductID: "1", ProductName: "Laptop", Requested: 3, Available: 2})

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	var ise *InsufficientStockError
	assert.True(t, errors.As(err, &ise))
	assert.Equal(t, "Laptop", ise.ProductName)
	assert.Contains(t, err.Error(), "Laptop")
	assert.Equal(t, "order not found", NotFound("order").Error())
}
