package chart

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	camelBoundary  = regexp.MustCompile(`([a-z])([A-Z])`)
	separatorRun   = regexp.MustCompile(`[\s_]+`)
	pascalSplitter = regexp.MustCompile(`[-_]`)
)

// NormalizeID converts a display id into its hyphen-lowercase identity:
// "ClimbsByNation", "climbs_by nation" and "climbs-by-nation" all become
// "climbs-by-nation".
func NormalizeID(id string) string {
	s := camelBoundary.ReplaceAllString(id, "$1-$2")
	s = separatorRun.ReplaceAllString(s, "-")
	return strings.ToLower(s)
}

// PascalID joins the hyphen/underscore separated words of id with their
// first letter capitalized: "new-chart" becomes "NewChart". The remainder of
// each word is left as is.
func PascalID(id string) string {
	var b strings.Builder
	for _, part := range pascalSplitter.Split(id, -1) {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}
