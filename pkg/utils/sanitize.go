package utils

import (
	"html"
	"strings"
)

// EscapeSQLWildcards escapes LIKE/ILIKE wildcards so user input can be used
// in pattern queries safely.
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery prepares a search term for ILIKE partial matching.
func SanitizeSearchQuery(input string) string {
	input = strings.TrimSpace(input)
	if len(input) > 100 {
		input = input[:100]
	}
	return "%" + EscapeSQLWildcards(input) + "%"
}

// SanitizeHTML escapes HTML entities in user-generated content.
func SanitizeHTML(input string) string {
	return html.EscapeString(input)
}

// TruncateString safely truncates a string to max length.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
