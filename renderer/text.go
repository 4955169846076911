package renderer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ligatures = strings.NewReplacer(
		"ﬁ", "fi",
		"ﬂ", "fl",
		"ﬀ", "ff",
		"ﬃ", "ffi",
		"ﬄ", "ffl",
		"\uFB05", "st",
		"ﬆ", "st",
	)
	// NBSP und Tabs zählen als gewöhnliche Leerzeichen
	spaceRE       = regexp.MustCompile("[\t\f\v\u00A0]+")
	multiSpace    = regexp.MustCompile(` {2,}`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// normalizeText bereitet Benutzertext für die Rasterung vor: Ligaturen auflösen,
// NFKC, Steuerzeichen entfernen, Leerraum zusammenfassen.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = ligatures.Replace(s)
	s, _, _ = transform.String(norm.NFKC, s)
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == '\uFEFF' || r == '\u200B' {
			return -1
		}
		return r
	}, s)
	return collapseWhitespace(s)
}

func collapseWhitespace(s string) string {
	s = spaceRE.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	s = multiNewlines.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
