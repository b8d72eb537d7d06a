package main

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validator collects input errors for one request
type Validator struct {
	errors []string
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]string, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(message string) {
	v.errors = append(v.errors, message)
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []string {
	return v.errors
}

// ErrorString returns all errors as a single string
func (v *Validator) ErrorString() string {
	return strings.Join(v.errors, "; ")
}

// ValidateRequired checks if a string is not empty
func (v *Validator) ValidateRequired(value, field string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(fmt.Sprintf("%s is required", field))
	}
	return v
}

// ValidateLength checks string length constraints
func (v *Validator) ValidateLength(value, field string, min, max int) *Validator {
	length := utf8.RuneCountInString(value)
	if length < min {
		v.AddError(fmt.Sprintf("%s must be at least %d characters long", field, min))
	}
	if max > 0 && length > max {
		v.AddError(fmt.Sprintf("%s must be no more than %d characters long", field, max))
	}
	return v
}

// ValidateURL validates URL format and schemes. Empty values pass.
func (v *Validator) ValidateURL(rawURL, field string, allowedSchemes ...string) *Validator {
	if rawURL == "" {
		return v
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		v.AddError(fmt.Sprintf("%s must be a valid URL", field))
		return v
	}

	if u.Scheme == "" {
		v.AddError(fmt.Sprintf("%s must include a scheme (http/https)", field))
		return v
	}

	if len(allowedSchemes) > 0 {
		schemeAllowed := false
		for _, scheme := range allowedSchemes {
			if u.Scheme == scheme {
				schemeAllowed = true
				break
			}
		}
		if !schemeAllowed {
			v.AddError(fmt.Sprintf("%s must use one of the following schemes: %s", field, strings.Join(allowedSchemes, ", ")))
		}
	}

	if u.Host == "" {
		v.AddError(fmt.Sprintf("%s must include a valid host", field))
	}

	return v
}

// ValidateNonNegative rejects negative amounts
func (v *Validator) ValidateNonNegative(value float64, field string) *Validator {
	if value < 0 {
		v.AddError(fmt.Sprintf("%s cannot be negative", field))
	}
	return v
}

var metadataKeyPattern = regexp.MustCompile(`^[a-z0-9_]{1,40}$`)

// ValidateMetadata checks listing metadata keys and values
func (v *Validator) ValidateMetadata(values map[string]string, field string, maxItems int) *Validator {
	if len(values) > maxItems {
		v.AddError(fmt.Sprintf("%s cannot have more than %d entries", field, maxItems))
		return v
	}
	for key, value := range values {
		if !metadataKeyPattern.MatchString(key) {
			v.AddError(fmt.Sprintf("%s key %q may only contain lowercase letters, numbers and underscores", field, key))
		}
		if utf8.RuneCountInString(value) > 500 {
			v.AddError(fmt.Sprintf("%s value for %q exceeds 500 characters", field, key))
		}
	}
	return v
}

var xssPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script[^>]*>`),
	regexp.MustCompile(`(?i)<iframe[^>]*>`),
	regexp.MustCompile(`(?i)<object[^>]*>`),
	regexp.MustCompile(`(?i)<embed[^>]*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
}

// ValidateNoXSS validates that public input doesn't contain markup that
// would run once rendered into a listing page
func (v *Validator) ValidateNoXSS(value, field string) *Validator {
	for _, pattern := range xssPatterns {
		if pattern.MatchString(value) {
			v.AddError(fmt.Sprintf("%s contains potentially dangerous content", field))
			break
		}
	}
	return v
}

// ValidateSafeText rejects control characters other than whitespace
func (v *Validator) ValidateSafeText(value, field string) *Validator {
	for _, r := range value {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			v.AddError(fmt.Sprintf("%s contains invalid characters", field))
			break
		}
	}
	return v
}
