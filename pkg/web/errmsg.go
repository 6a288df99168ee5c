package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// GetErrorMsg returns a readable message for the first failed validation.
func GetErrorMsg(ve validator.ValidationErrors) string {
	field := ve[0]

	switch field.Tag() {
	case "required":
		return field.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field.Field(), field.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field.Field(), field.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field.Field(), field.Param())
	case "cardtier":
		return field.Field() + " is not a supported card tier"
	default:
		return field.Field() + " is invalid"
	}
}
