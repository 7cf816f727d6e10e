package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the endpoint_path rule registered
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("endpoint_path", func(fl validator.FieldLevel) bool {
		p := fl.Field().String()
		return p == "" || (strings.HasPrefix(p, "/") && !strings.ContainsAny(p, " ?#"))
	})
	return &Validator{validate: v}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Namespace(),
			e.Tag(),
			e.Value(),
		))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates struct tags, then the rules that span sections
func ValidateConfig(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return err
	}
	if cfg.Database.Type == "postgres" && cfg.Database.URL == "" && cfg.Database.Host == "" {
		return fmt.Errorf("validation failed:\n  field 'Config.Database.Host' is required for postgres without a url")
	}
	return nil
}
