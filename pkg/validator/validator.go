package validator

import (
	"errors"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Validator provides validation functions for request data
type Validator interface {
	// Validate validates a struct based on its `validate` tags.
	// A failing struct yields FieldErrors covering every offending field.
	Validate(i interface{}) error
}

// FieldError describes one field that failed a rule
type FieldError struct {
	Field string
	Tag   string
}

// FieldErrors lists failing fields in struct declaration order
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+" failed "+fe.Tag)
	}
	return strings.Join(parts, "; ")
}

// Fields returns the names of the failing fields
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for _, fe := range e {
		fields = append(fields, fe.Field)
	}
	return fields
}

// New creates a new validator. Field names are reported by their json tag.
func New() Validator {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return &tagValidator{validate: v}
}

type tagValidator struct {
	validate *playground.Validate
}

func (v *tagValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrs playground.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := make(FieldErrors, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out
}
