// Package validation checks user input before it reaches a page renderer.
// Values are always bound as query parameters, so the checks only bound size and reject
// characters no product name contains.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxQueryLength bounds the search keyword, in characters.
	MaxQueryLength = 100
	// MaxProductLength bounds a drill-down product name, in characters.
	MaxProductLength = 255
)

var (
	ErrTooLong          = errors.New("input too long")
	ErrInvalidEncoding  = errors.New("input is not valid UTF-8")
	ErrControlCharacter = errors.New("input contains control characters")
)

// ValidateQuery checks a search keyword. An empty keyword is valid: it means "not searched".
func ValidateQuery(input string) error {
	if err := validateText(input, MaxQueryLength); err != nil {
		return fmt.Errorf("invalid search query: %w", err)
	}
	return nil
}

// ValidateProduct checks a selected product name.
func ValidateProduct(input string) error {
	if err := validateText(input, MaxProductLength); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}
	return nil
}

func validateText(input string, maxLen int) error {
	if !utf8.ValidString(input) {
		return ErrInvalidEncoding
	}
	if n := utf8.RuneCountInString(input); n > maxLen {
		return fmt.Errorf("%w: %d characters, maximum %d", ErrTooLong, n, maxLen)
	}
	if strings.IndexFunc(input, unicode.IsControl) >= 0 {
		return ErrControlCharacter
	}
	return nil
}
