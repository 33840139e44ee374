package utils

import "strings"

// CountWords counts whitespace separated tokens
func CountWords(s string) int {
	return len(strings.Fields(s))
}
