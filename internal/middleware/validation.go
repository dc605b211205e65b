package middleware

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "examstats/internal/errors"
)

// RequestValidator validates decoded request parameters using struct tags
type RequestValidator struct {
	validator *validator.Validate
}

// NewRequestValidator reports fields by their query or JSON tag name
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &RequestValidator{validator: v}
}

// Validate returns nil or an APIError listing every failed field
func (rv *RequestValidator) Validate(req interface{}) *apperrors.APIError {
	err := rv.validator.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.ErrValidation("request", err.Error())
	}

	fields := make([]apperrors.ValidationError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, apperrors.ValidationError{
			Field:   fieldPath(fe),
			Message: validationMessage(fe),
		})
	}
	return apperrors.NewValidationErrors(fields)
}

// fieldPath drops the struct name prefix from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "dive":
		return "has an invalid element"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
