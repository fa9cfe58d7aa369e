package validator

import (
	"fmt"
	"regexp"

	"github.com/cinetix/cinema-booking/api"
	"github.com/go-playground/validator/v10"
)

var phoneRgx = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("phone", validatePhone)
	validator.RegisterValidation("payment_method", validatePaymentMethod)

	return validator
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRgx.MatchString(fl.Field().String())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	method, ok := fl.Field().Interface().(api.PaymentMethod)
	if !ok {
		return false
	}

	return method == api.PaymentMethodCash || method == api.PaymentMethodCard
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a length of at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must have a length of at most %s", err.Param())
	case "unique":
		return "must not contain duplicates"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "phone":
		return "must be a valid phone number"
	case "payment_method":
		return "must be one of: cash, card"
	default:
		return "is invalid"
	}
}
