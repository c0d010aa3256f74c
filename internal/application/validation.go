package application

import (
	"fmt"
	"strconv"
	"strings"

	"kifunav/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidateNonNegative checks that an integer field is zero or greater
func ValidateNonNegative(fieldName string, value int) error {
	if value < 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be non-negative, got %d", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "positionKey" -> "position key")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"positionKey": "position key",
		"recordPath":  "record path",
		"forkIndex":   "fork index",
		"forkPointer": "fork pointer",
		"tesuu":       "move number",
		"te":          "move number",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ParseForkPointer parses the "te:forkIndex" form used on command lines
func ParseForkPointer(s string) (domain.ForkPointer, error) {
	teStr, fxStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return domain.ForkPointer{}, &ValidationError{
			Field:   "forkPointer",
			Message: fmt.Sprintf("expected te:forkIndex, got: %s", s),
		}
	}

	te, err := strconv.Atoi(teStr)
	if err != nil {
		return domain.ForkPointer{}, &ValidationError{Field: "te", Message: fmt.Sprintf("not a number: %s", teStr)}
	}
	fx, err := strconv.Atoi(fxStr)
	if err != nil {
		return domain.ForkPointer{}, &ValidationError{Field: "forkIndex", Message: fmt.Sprintf("not a number: %s", fxStr)}
	}

	if err := ValidateNonNegative("te", te); err != nil {
		return domain.ForkPointer{}, err
	}
	if err := ValidateNonNegative("forkIndex", fx); err != nil {
		return domain.ForkPointer{}, err
	}
	return domain.ForkPointer{Te: te, ForkIndex: fx}, nil
}

// ParseForkPointers parses a list of "te:forkIndex" arguments
func ParseForkPointers(args []string) ([]domain.ForkPointer, error) {
	fps := make([]domain.ForkPointer, 0, len(args))
	for _, a := range args {
		fp, err := ParseForkPointer(a)
		if err != nil {
			return nil, err
		}
		fps = append(fps, fp)
	}
	return fps, nil
}
