package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	validatorv10 "github.com/go-playground/validator/v10"
)

var std = validatorv10.New()

// Struct validates v against its `validate` tags and folds field failures into
// a single apperr.ErrValidation.
func Struct(v any) error {
	err := std.Struct(v)
	if err == nil {
		return nil
	}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%s: %w", err.Error(), apperr.ErrValidation)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.StructNamespace(), fe.Tag()))
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), apperr.ErrValidation)
}
