package internal

import (
	"regexp"
	"strings"
)

var colonSpaces = regexp.MustCompile(": +")

// TrimLines collapses an indented multi-line literal into a single line.
// It is used to compare inline golden JSON and to reject blank env values.
func TrimLines(s string) string {
	trimmed := colonSpaces.ReplaceAllString(s, ":")
	trimmed = strings.ReplaceAll(trimmed, "\n", "")
	trimmed = strings.ReplaceAll(trimmed, "\t", "")
	return strings.TrimSpace(trimmed)
}
