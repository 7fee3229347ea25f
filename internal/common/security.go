package common

import (
	"regexp"
	"strings"
)

// MaxInputLength caps sanitized free-text input
const MaxInputLength = 100

var (
	tickerPattern   = regexp.MustCompile(`^[A-Z]{1,5}$`)
	disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_.,]`)
)

// ValidateTicker reports whether s is 1-5 uppercase ASCII letters
func ValidateTicker(s string) bool {
	return tickerPattern.MatchString(s)
}

// SanitizeInput strips characters outside [a-zA-Z0-9 whitespace - _ . ,],
// trims surrounding whitespace and truncates to MaxInputLength runes
func SanitizeInput(s string) string {
	if s == "" {
		return s
	}
	cleaned := strings.TrimSpace(disallowedChars.ReplaceAllString(s, ""))
	if runes := []rune(cleaned); len(runes) > MaxInputLength {
		cleaned = string(runes[:MaxInputLength])
	}
	return cleaned
}
