package utils

import "strings"

// Trim collapses surrounding whitespace; request fields pass through here
// before validation so " " and "" are treated the same.
func Trim(s string) string {
	return strings.TrimSpace(s)
}
