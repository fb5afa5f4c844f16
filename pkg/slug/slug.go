// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	// Keeps word characters (letters, marks, digits, connector punctuation)
	// and dash punctuation. Whitespace is already gone at this point.
	invalidRegex   = regexp.MustCompile(`[^\p{L}\p{Mn}\p{Nd}\p{Pc}\p{Pd}]`)
	separatorRegex = regexp.MustCompile(`([-_]){2,}`)
)

var lower = cases.Lower(language.Und)

// Make converts name into a slug.
//
// The result is lowercase, has whitespace runs replaced by "-", contains only
// word characters and dashes, never starts or ends with "-" or "_", and has
// no repeated "-"/"_" runs. Make is idempotent and Make("") == "".
func Make(name string) string {
	if name == "" {
		return ""
	}
	s := norm.NFC.String(name)
	s = lower.String(s)
	s = whitespaceRegex.ReplaceAllString(s, "-")
	s = invalidRegex.ReplaceAllString(s, "")
	// Stripping can bring a base letter next to a combining mark.
	s = norm.NFC.String(s)
	s = strings.Trim(s, "-_")
	s = separatorRegex.ReplaceAllString(s, "$1")
	return s
}
