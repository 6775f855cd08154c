// Package toon writes unused-code reports as TOON (Token-Oriented Object
// Notation).
//
// Only the subset a report needs is emitted: a leading `key: value` scalar
// line followed by tabular arrays of the form
//
//	name[N]{col1,col2}:
//	  v1,v2
//
// with rows indented by two spaces and cells separated by commas. Nested
// objects, list arrays and alternative delimiters are never produced.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Dhir0808/cargo-rust-unused/internal/index"
	"github.com/Dhir0808/cargo-rust-unused/internal/model"
)

var (
	// A cell containing a delimiter or structural character must be quoted.
	structural = regexp.MustCompile(`[,:"\\{}\[\]]`)
	// Unquoted numbers stay numbers.
	number = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)

	escaper = strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
)

// table is one tabular array of the output.
type table struct {
	name    string
	columns []string
	rows    [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) writeTo(b *strings.Builder) {
	fmt.Fprintf(b, "%s[%d]{%s}:", t.name, len(t.rows), strings.Join(t.columns, ","))
	for _, row := range t.rows {
		b.WriteString("\n  ")
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(encodeScalar(cell))
		}
	}
}

// Encode converts a report into TOON format. When sites is non-nil, the
// function and module tables carry one row per declaration site.
func Encode(project string, r *model.Report, sites *index.Index) string {
	deps := &table{name: "unused_dependencies", columns: []string{"name"}}
	for _, dep := range r.UnusedDependencies {
		deps.add(dep)
	}

	var b strings.Builder
	b.WriteString("project: " + encodeScalar(project))
	for _, t := range []*table{
		deps,
		declarationTable("unused_functions", r.UnusedFunctions, sites),
		declarationTable("unused_modules", r.UnusedModules, sites),
	} {
		b.WriteByte('\n')
		t.writeTo(&b)
	}
	return b.String()
}

func declarationTable(name string, keys []string, sites *index.Index) *table {
	if sites == nil {
		t := &table{name: name, columns: []string{"name"}}
		for _, key := range keys {
			t.add(key)
		}
		return t
	}

	t := &table{name: name, columns: []string{"name", "file", "line"}}
	for _, key := range keys {
		at := sites.Sites(key)
		if len(at) == 0 {
			t.add(key, "", "")
			continue
		}
		for _, s := range at {
			t.add(key, s.File, strconv.Itoa(s.Line))
		}
	}
	return t
}

// encodeScalar renders a single cell, quoting it whenever a bare rendition
// would read back as something else.
func encodeScalar(value string) string {
	switch {
	case value == "":
		return `""`
	case number.MatchString(value):
		return value
	case mustQuote(value):
		return `"` + escaper.Replace(value) + `"`
	default:
		return value
	}
}

func mustQuote(value string) bool {
	if value != strings.TrimSpace(value) || strings.ContainsAny(value, "\n\r\t") {
		return true
	}
	switch strings.ToLower(value) {
	case "true", "false", "null":
		return true
	}
	return strings.HasPrefix(value, "-") || structural.MatchString(value)
}
