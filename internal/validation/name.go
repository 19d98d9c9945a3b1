package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateRequired trims value and checks it is present and at most max characters.
// field names the value in the returned error.
func ValidateRequired(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)

	if trimmed == "" {
		return "", fmt.Errorf("%s is required", field)
	}

	if utf8.RuneCountInString(trimmed) > max {
		return "", fmt.Errorf("%s is too long (max %d characters)", field, max)
	}

	return trimmed, nil
}

// ValidateOptional applies the length limit to a nullable value. Blank values become nil.
func ValidateOptional(field string, value *string, max int) (*string, error) {
	if value == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}

	if utf8.RuneCountInString(trimmed) > max {
		return nil, fmt.Errorf("%s is too long (max %d characters)", field, max)
	}

	return &trimmed, nil
}
