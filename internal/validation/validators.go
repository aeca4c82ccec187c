package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("notblank", validateNotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validator: %v", err))
	}
	if err := Validate.RegisterValidation("ratelimit", validateRateLimit); err != nil {
		panic(fmt.Sprintf("failed to register ratelimit validator: %v", err))
	}
}

// validateNotBlank rejects strings that are empty after trimming whitespace
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateRateLimit accepts rates in the limiter's formatted notation ("5-S", "100-M", "1000-H")
func validateRateLimit(fl validator.FieldLevel) bool {
	return ValidateRateLimit(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return strings.TrimSpace(sanitized.String())
}

// ValidateRateLimit validates a formatted rate string
func ValidateRateLimit(value string) error {
	if _, err := limiter.NewRateFromFormatted(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid rate: %s (expected e.g. '5-S', '100-M', '1000-H')", value)
	}
	return nil
}
