// Package strings holds list helpers for comma-separated settings.
package strings

import (
	"strings"
)

// SplitList splits a comma-separated setting such as
// "broker-1:9092, broker-2:9092" into trimmed, unique entries.
func SplitList(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(csv, ","))
}

// DedupeAndTrim drops blank and repeated entries, trimming each one. Order is
// preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
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
