package helpers

import "strings"

// CollapseSpaces trims s and replaces every whitespace run with one space
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RemoveOnce removes the first occurrence of sub from s
func RemoveOnce(s, sub string) string {
	if sub == "" {
		return s
	}
	return strings.Replace(s, sub, "", 1)
}
