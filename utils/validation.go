package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON names
// and knows the "notblank" tag (rejects whitespace-only strings)
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// TranslateValidationError turns validator errors into one readable sentence
func TranslateValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	messages := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required", "notblank":
			messages = append(messages, field+" is required")
		case "email":
			messages = append(messages, "invalid email format")
		case "min":
			if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
				messages = append(messages, field+" must contain at least "+fe.Param()+" items or characters")
			} else {
				messages = append(messages, field+" must be at least "+fe.Param())
			}
		case "max":
			if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
				messages = append(messages, field+" must be at most "+fe.Param()+" characters")
			} else {
				messages = append(messages, field+" must be at most "+fe.Param())
			}
		case "numeric":
			messages = append(messages, field+" must contain only numbers")
		case "oneof":
			messages = append(messages, field+" must be one of: "+strings.Join(strings.Fields(fe.Param()), ", "))
		case "datetime":
			messages = append(messages, field+" must be a date in "+fe.Param()+" format")
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, ", ")
}
