package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord indicates a catalog record failed schema validation.
var ErrInvalidRecord = errors.New("invalid catalog record")

// Validator checks raw records against the catalog schema.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator for RawRecord.
func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns an error naming every failing field, or nil.
func (v *Validator) Validate(r *RawRecord) error {
	if r == nil {
		return fmt.Errorf("%w: undecodable", ErrInvalidRecord)
	}
	err := v.validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(fields, ", "))
}
