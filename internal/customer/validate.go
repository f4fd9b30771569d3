package customer

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is the sentinel every *ValidationError matches via errors.Is.
var ErrValidation = errors.New("customer: validation failed")

// ValidationError reports the first form field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("customer: %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// rule is one field check. Rules run in slice order and the first failure wins.
type rule struct {
	field   string
	tag     string
	value   func(Form) string
	message string
}

var rules = []rule{
	{
		field:   "name",
		tag:     "required",
		value:   func(f Form) string { return f.Name },
		message: "Customer Name is required.",
	},
	{
		field:   "email",
		tag:     "omitempty,contains=@",
		value:   func(f Form) string { return f.Email },
		message: "Please enter a valid Email address.",
	},
	{
		field:   "contact_method",
		tag:     "required",
		value:   func(f Form) string { return f.ContactMethod },
		message: "Preferred Contact Method must be selected.",
	},
}

var validate = validator.New()

// Validate checks the trimmed form values and returns a *ValidationError for
// the first field that fails, or nil.
func Validate(f Form) error {
	f = f.Normalize()
	for _, r := range rules {
		if err := validate.Var(r.value(f), r.tag); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				// Invalid tag: a programming error, not user input.
				return fmt.Errorf("customer: validating %s: %w", r.field, err)
			}
			return &ValidationError{Field: r.field, Message: r.message}
		}
	}
	return nil
}
