package impl

import (
	"strings"

	domainerrors "storefront/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// newValidator returns the struct validator shared by the services.
func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validationMessages maps a field to what the customer is told when it is
// missing or malformed. Fields without an entry get a generic message.
type validationMessages map[string]string

// validateStruct checks s and reports only the first violation, as a
// VALIDATION_FAILED error whose details carry the customer-facing message.
func validateStruct(v *validator.Validate, s any, messages validationMessages) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrap(err, "failed to validate input")
	}

	first := fieldErrs[0]
	msg, ok := messages[first.Field()]
	if !ok {
		msg = "please check " + strings.ToLower(first.Field())
	}

	return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(msg))
}
