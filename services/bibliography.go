package services

import (
	"fmt"
	"strings"

	"paper-trail/models"
)

// FormatReference rendert eine Quelle als kompakte Literaturangabe:
// "Autor (Jahr). Titel. Verlag. URL".
func FormatReference(s models.Source) string {
	author := deref(s.Author)
	if author == "" {
		author = "Unknown Author"
	}
	year := "n.d."
	if s.PublishedAt != nil {
		year = s.PublishedAt.Format("2006-01-02")
	}
	title := deref(s.Title)
	if title == "" {
		title = "Untitled"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s). %s.", author, year, title)
	if publisher := deref(s.Publisher); publisher != "" {
		fmt.Fprintf(&b, " %s.", publisher)
	}
	fmt.Fprintf(&b, " [%s] %s", s.SourceType, s.URL)
	if s.IsArchived {
		b.WriteString(" (archived)")
	}
	return b.String()
}

// CitationLabel liefert "[n]" für eine Quellennummer im Report.
func CitationLabel(n int) string {
	if n <= 0 {
		return "[?]"
	}
	return fmt.Sprintf("[%d]", n)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
