package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"quill/apperr"
	"quill/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NewValidator returns a validator that knows the post category rule and
// reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsCategory(fl.Field().String())
	})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validationError turns the first failed rule of a validator error into
// a ValidationFailed error with a readable message.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Wrap(apperr.KindValidationFailed, "Invalid input", err)
	}

	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required", "notblank":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "category":
		msg = fmt.Sprintf("category must be one of %s", strings.Join(models.Categories, ", "))
	case "email":
		msg = fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			msg = fmt.Sprintf("%s may have at most %s entries", fe.Field(), fe.Param())
		} else {
			msg = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return apperr.Wrap(apperr.KindValidationFailed, msg, err)
}
