package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Kenyan mobile numbers in international format, e.g. 254712345678.
var msisdnKE = regexp.MustCompile(`^254[17]\d{8}$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("msisdn_ke", func(fl validator.FieldLevel) bool {
		return msisdnKE.MatchString(fl.Field().String())
	})
}

// Validate struct fields, returning every violation keyed by field name.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Tag()
	}
	return errors
}
