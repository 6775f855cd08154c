// Package render writes unused-code reports in the supported output formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/Dhir0808/cargo-rust-unused/internal/index"
	"github.com/Dhir0808/cargo-rust-unused/internal/model"
	"github.com/Dhir0808/cargo-rust-unused/internal/toon"
)

// Format selects an output encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
	TOON Format = "toon"
)

// Formats lists every supported format in help order.
var Formats = []Format{Text, JSON, YAML, TOON}

// ParseFormat validates s as a Format. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Options control presentation details shared by the renderers.
type Options struct {
	// Project names the analyzed project in formats that carry a header.
	Project string
	// Sites, when set, adds declaration locations to functions and modules.
	Sites *index.Index
	// NoColor disables styling in text output.
	NoColor bool
}

// Render writes r to w in format f.
func Render(w io.Writer, f Format, r *model.Report, opts Options) error {
	switch f {
	case Text:
		return WriteText(w, r, opts)
	case JSON:
		return WriteJSON(w, r, opts)
	case YAML:
		return WriteYAML(w, r, opts)
	case TOON:
		_, err := fmt.Fprintln(w, toon.Encode(opts.Project, r, opts.Sites))
		return err
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// document is the structured-output shape: the report's three lists plus,
// optionally, where each unused declaration lives.
type document struct {
	model.Report `yaml:",inline"`
	Locations    map[string][]model.Site `json:"locations,omitempty" yaml:"locations,omitempty"`
}

func newDocument(r *model.Report, sites *index.Index) document {
	doc := document{Report: *r}
	if sites == nil {
		return doc
	}
	doc.Locations = make(map[string][]model.Site)
	for _, keys := range [][]string{r.UnusedFunctions, r.UnusedModules} {
		for _, key := range keys {
			if at := sites.Sites(key); len(at) > 0 {
				doc.Locations[key] = at
			}
		}
	}
	return doc
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *model.Report, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(r, opts.Sites)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// WriteYAML writes r as a YAML document.
func WriteYAML(w io.Writer, r *model.Report, opts Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(r, opts.Sites)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

type styles struct {
	heading lipgloss.Style
	item    lipgloss.Style
	site    lipgloss.Style
	success lipgloss.Style
}

func newStyles(w io.Writer, noColor bool) styles {
	re := lipgloss.NewRenderer(w)
	if noColor {
		return styles{
			heading: re.NewStyle(),
			item:    re.NewStyle(),
			site:    re.NewStyle(),
			success: re.NewStyle(),
		}
	}
	return styles{
		heading: re.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		item:    re.NewStyle(),
		site:    re.NewStyle().Foreground(lipgloss.Color("242")),
		success: re.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// WriteText writes the human-readable report. Empty sections are omitted.
// Styling is dropped automatically when w is not a terminal.
func WriteText(w io.Writer, r *model.Report, opts Options) error {
	st := newStyles(w, opts.NoColor)
	var b strings.Builder

	section := func(title string, items []string, located bool) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s\n", st.heading.Render(title))
		for _, item := range items {
			fmt.Fprintf(&b, "  - %s", st.item.Render(item))
			if located {
				for _, s := range opts.Sites.Sites(item) {
					fmt.Fprintf(&b, " %s", st.site.Render(fmt.Sprintf("(%s:%d)", s.File, s.Line)))
				}
			}
			b.WriteByte('\n')
		}
	}

	located := opts.Sites != nil
	section("Unused Dependencies:", r.UnusedDependencies, false)
	section("Unused Functions:", r.UnusedFunctions, located)
	section("Unused Modules:", r.UnusedModules, located)

	if r.Empty() {
		fmt.Fprintf(&b, "\n%s\n", st.success.Render("✨ No unused code found!"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
