package util

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a display string into a URL segment made of lowercase ASCII
// letters, digits and single hyphens, with no leading or trailing hyphen.
//
//	Slugify("Jean Dupont")  // "jean-dupont"
//	Slugify("Éric   Noël")  // "eric-noel"
func Slugify(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	slug := strings.TrimSpace(folded)
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = hyphenRun.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

// SuffixSlug returns base for n <= 1, base-n otherwise.
func SuffixSlug(base string, n int) string {
	if n <= 1 {
		return base
	}

	return base + "-" + strconv.Itoa(n)
}
