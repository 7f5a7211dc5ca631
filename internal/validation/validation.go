package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names, which is what clients send.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return v
}

// RequiredFieldsError lists the request fields that were missing or empty.
type RequiredFieldsError struct {
	Fields []string
}

func (e *RequiredFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// Struct validates a request payload against its validate tags.
// Missing required fields are collected into a *RequiredFieldsError;
// any other rule violation is returned as a single descriptive error.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	missing := &RequiredFieldsError{}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing.Fields = append(missing.Fields, fe.Field())
			continue
		}
		return errors.New(fe.Field() + " is invalid")
	}

	return missing
}
