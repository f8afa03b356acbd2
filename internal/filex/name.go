// Package filex provides helpers for user-supplied file names.
package filex

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var disallowed = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// stripMarks decomposes to NFD, drops combining marks ("Ñ" -> "N",
// "ú" -> "u") and recomposes.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeName turns a user-supplied display name into a safe one: accents
// are stripped and every run of characters outside [A-Za-z0-9._-] collapses
// to a single underscore. The result never contains a path separator, so it
// cannot traverse out of its storage prefix. SanitizeName is idempotent.
func SanitizeName(name string) string {
	s, _, err := transform.String(stripMarks, name)
	if err != nil {
		// Fall back to the raw name; the disallowed-set pass below still
		// guarantees a safe result.
		s = name
	}

	s = disallowed.ReplaceAllString(s, "_")
	// Trimming dots along with underscores keeps hidden-file names out and
	// makes a second pass a no-op.
	s = strings.Trim(s, "._")

	if s == "" {
		return "document"
	}
	return s
}
