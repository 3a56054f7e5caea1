// Package strings provides string slice hygiene helpers for configuration
// values.
package strings

import "strings"

// DedupeAndTrimLower trims whitespace, lowercases, and removes duplicates
// and empties from a slice, preserving first-seen order. Used to normalize
// host lists from the environment.
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}
