package renderer

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var defaultStyles []byte

// Style beschreibt Seitenformat, Schrift und Farben eines Dossiers.
type Style struct {
	Page struct {
		Width  int     `yaml:"width"`
		Height int     `yaml:"height"`
		Margin float64 `yaml:"margin"`
	} `yaml:"page"`
	Fonts struct {
		Title   float64 `yaml:"title"`
		Heading float64 `yaml:"heading"`
		Body    float64 `yaml:"body"`
		Small   float64 `yaml:"small"`
	} `yaml:"fonts"`
	Colors struct {
		Text       string `yaml:"text"`
		Accent     string `yaml:"accent"`
		Muted      string `yaml:"muted"`
		Background string `yaml:"background"`
	} `yaml:"colors"`
	LineSpacing  float64 `yaml:"line_spacing"`
	ShowExtracts bool    `yaml:"show_extracts"`
	ShowContext  bool    `yaml:"show_context"`
}

type styleFile struct {
	Styles map[string]Style `yaml:"styles"`
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadStyles liest die eingebetteten Stile und legt optional eine Datei darüber.
// Stile aus der Datei ersetzen gleichnamige eingebettete Stile vollständig.
func LoadStyles(path string) (map[string]Style, error) {
	styles, err := parseStyles(defaultStyles)
	if err != nil {
		return nil, fmt.Errorf("embedded styles: %w", err)
	}
	if path == "" {
		return styles, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read style file: %w", err)
	}
	extra, err := parseStyles(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for name, st := range extra {
		styles[name] = st
	}
	return styles, nil
}

func parseStyles(raw []byte) (map[string]Style, error) {
	var f styleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	for name, st := range f.Styles {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("style %q: %w", name, err)
		}
	}
	if f.Styles == nil {
		f.Styles = map[string]Style{}
	}
	return f.Styles, nil
}

func (s Style) validate() error {
	if s.Page.Width < 200 || s.Page.Height < 200 {
		return fmt.Errorf("page too small (%dx%d)", s.Page.Width, s.Page.Height)
	}
	if s.Page.Margin < 0 || 2*s.Page.Margin >= float64(s.Page.Width) || 2*s.Page.Margin >= float64(s.Page.Height) {
		return fmt.Errorf("margin %.0f does not fit the page", s.Page.Margin)
	}
	if s.Fonts.Title <= 0 || s.Fonts.Heading <= 0 || s.Fonts.Body <= 0 || s.Fonts.Small <= 0 {
		return fmt.Errorf("all font sizes must be positive")
	}
	for _, c := range []string{s.Colors.Text, s.Colors.Accent, s.Colors.Muted, s.Colors.Background} {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("invalid color %q", c)
		}
	}
	if s.LineSpacing < 1 {
		return fmt.Errorf("line_spacing must be at least 1")
	}
	return nil
}

func styleNames(styles map[string]Style) []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
