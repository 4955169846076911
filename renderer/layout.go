package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// fontSet hält die geparsten Go-Fonts; Faces werden pro Größe erzeugt.
type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
	italic  *truetype.Font
}

func loadFonts() (*fontSet, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	italic, err := truetype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse italic font: %w", err)
	}
	return &fontSet{regular: regular, bold: bold, italic: italic}, nil
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

type textKind int

const (
	kindTitle textKind = iota
	kindHeading
	kindBody
	kindQuote
	kindSmall
)

// pageWriter setzt Textblöcke von oben nach unten und beginnt bei Bedarf eine neue Seite.
type pageWriter struct {
	style Style
	fonts *fontSet
	faces map[textKind]font.Face

	pages []*gg.Context
	dc    *gg.Context
	y     float64
}

func newPageWriter(style Style, fonts *fontSet) *pageWriter {
	w := &pageWriter{
		style: style,
		fonts: fonts,
		faces: map[textKind]font.Face{
			kindTitle:   face(fonts.bold, style.Fonts.Title),
			kindHeading: face(fonts.bold, style.Fonts.Heading),
			kindBody:    face(fonts.regular, style.Fonts.Body),
			kindQuote:   face(fonts.italic, style.Fonts.Body),
			kindSmall:   face(fonts.regular, style.Fonts.Small),
		},
	}
	w.newPage()
	return w
}

func (w *pageWriter) newPage() {
	dc := gg.NewContext(w.style.Page.Width, w.style.Page.Height)
	dc.SetHexColor(w.style.Colors.Background)
	dc.Clear()
	w.pages = append(w.pages, dc)
	w.dc = dc
	w.y = w.style.Page.Margin
}

func (w *pageWriter) contentWidth() float64 {
	return float64(w.style.Page.Width) - 2*w.style.Page.Margin
}

func (w *pageWriter) bottom() float64 {
	return float64(w.style.Page.Height) - w.style.Page.Margin
}

func (w *pageWriter) sizeOf(kind textKind) float64 {
	switch kind {
	case kindTitle:
		return w.style.Fonts.Title
	case kindHeading:
		return w.style.Fonts.Heading
	case kindSmall:
		return w.style.Fonts.Small
	}
	return w.style.Fonts.Body
}

func (w *pageWriter) colorOf(kind textKind) string {
	switch kind {
	case kindTitle, kindHeading:
		return w.style.Colors.Accent
	case kindSmall, kindQuote:
		return w.style.Colors.Muted
	}
	return w.style.Colors.Text
}

// text setzt einen Absatz mit Umbruch. indent rückt den Block nach rechts ein.
func (w *pageWriter) text(kind textKind, s string, indent float64) {
	s = normalizeText(s)
	if s == "" {
		return
	}
	lineHeight := w.sizeOf(kind) * w.style.LineSpacing
	w.dc.SetFontFace(w.faces[kind])
	width := w.contentWidth() - indent

	for _, para := range strings.Split(s, "\n") {
		lines := w.dc.WordWrap(para, width)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			if w.y+lineHeight > w.bottom() {
				w.newPage()
				w.dc.SetFontFace(w.faces[kind])
			}
			w.dc.SetHexColor(w.colorOf(kind))
			w.dc.DrawStringAnchored(line, w.style.Page.Margin+indent, w.y, 0, 1)
			w.y += lineHeight
		}
	}
}

// heading hält die Überschrift mit etwas Folgetext zusammen.
func (w *pageWriter) heading(kind textKind, s string) {
	need := w.sizeOf(kind)*w.style.LineSpacing + 3*w.style.Fonts.Body*w.style.LineSpacing
	if w.y > w.style.Page.Margin && w.y+need > w.bottom() {
		w.newPage()
	}
	w.text(kind, s, 0)
}

func (w *pageWriter) gap(lines float64) {
	w.y += lines * w.style.Fonts.Body
	if w.y > w.bottom() {
		w.newPage()
	}
}

func (w *pageWriter) rule() {
	if w.y+w.style.Fonts.Body > w.bottom() {
		w.newPage()
		return
	}
	w.dc.SetHexColor(w.style.Colors.Muted)
	w.dc.SetLineWidth(1)
	w.dc.DrawLine(w.style.Page.Margin, w.y, w.style.Page.Margin+w.contentWidth(), w.y)
	w.dc.Stroke()
	w.y += w.style.Fonts.Body
}

// footers nummeriert alle Seiten, sobald die Gesamtzahl feststeht.
func (w *pageWriter) footers(label string) {
	total := len(w.pages)
	for i, dc := range w.pages {
		dc.SetFontFace(w.faces[kindSmall])
		dc.SetHexColor(w.style.Colors.Muted)
		y := float64(w.style.Page.Height) - w.style.Page.Margin/2
		dc.DrawStringAnchored(normalizeText(label), w.style.Page.Margin, y, 0, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%d / %d", i+1, total), float64(w.style.Page.Width)-w.style.Page.Margin, y, 1, 0.5)
	}
}

// encode liefert jede Seite als PNG.
func (w *pageWriter) encode() ([][]byte, error) {
	out := make([][]byte, 0, len(w.pages))
	for i, dc := range w.pages {
		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}
