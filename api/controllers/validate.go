package controllers

import (
	"net/http"

	"github.com/chanderbhanswami/vardhman-mills-sub005/api/responses"
	"github.com/chanderbhanswami/vardhman-mills-sub005/api/validators"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/validation"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
)

type fieldValidateBody struct {
	Fields map[string]string `json:"fields" validate:"required,min=1"`
}

type fieldResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// FieldValidate runs the locale rules against individual field values
// so the storefront can validate as the shopper types.
func FieldValidate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body fieldValidateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results := make(map[string]fieldResult, len(body.Fields))
		for field, value := range body.Fields {
			res := validation.Validate(field, value, validation.Context{})
			results[field] = fieldResult{Valid: res.Valid, Message: res.Message}
		}

		responses.WriteSuccess(w, map[string]any{"results": results})
	}
}

type passwordStrengthBody struct {
	Password string `json:"password" validate:"required"`
}

// PasswordStrength scores a candidate password from 0 to 100.
func PasswordStrength(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body passwordStrengthBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{
			"strength": validation.PasswordStrength(body.Password),
		})
	}
}
