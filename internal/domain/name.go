package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	commaSpace    = regexp.MustCompile(`,\s+`)
)

// NormalizeName turns a typed item or client name into its stored form:
// whitespace runs collapse to one space, asterisks and accents are dropped,
// ", " becomes "," and the result is lower-cased. Every inbound adapter runs
// names through it so the same dish always maps to the same key.
func NormalizeName(s string) string {
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	s = strings.ReplaceAll(s, "*", "")
	s = stripAccents(s)
	s = commaSpace.ReplaceAllString(s, ",")
	return strings.ToLower(strings.TrimSpace(s))
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
