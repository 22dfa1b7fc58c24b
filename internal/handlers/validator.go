package handlers

import (
	"github.com/go-playground/validator/v10"

	"matjar/internal/models"
)

// newValidator builds a validator with the custom iqphone rule used by
// trader and shipping payloads.
func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("iqphone", func(fl validator.FieldLevel) bool {
		return models.ValidIraqiMobile(fl.Field().String())
	})
	return v
}

// validationMessages flattens validator errors into a field -> message map
// for JSON error responses.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			messages[e.Field()] = "Field '" + e.Field() + "' failed on the '" + e.Tag() + "' tag"
		}
	}
	return messages
}
