// Package validation installs go-playground/validator as Echo's validator.
package validation

import (
	"github.com/go-playground/validator/v10"

	"farmhub/entities"
)

// Validator adapts validator.Validate to echo.Validator.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("enum", validateEnum)
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// validateEnum checks closed string sets from the entities package.
func validateEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(entities.Enum)
	if !ok {
		return false
	}
	return e.Valid()
}
