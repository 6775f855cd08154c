// Package parse extracts declaration and usage tags from source files using tree-sitter.
package parse

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Dhir0808/cargo-rust-unused/internal/lang"
	"github.com/Dhir0808/cargo-rust-unused/internal/model"
)

var captureMap = map[string]struct {
	Kind       model.TagKind
	SymbolKind model.SymbolKind
}{
	"definition.function": {model.Definition, model.Function},
	"definition.module":   {model.Definition, model.Module},
	"reference.call":      {model.Reference, model.Function},
	"reference.import":    {model.Reference, model.Dependency},
}

// newerSyntax matches keywords of stable Rust forms the bundled grammar
// predates. Submatch 1 is the keyword run that is blanked before parsing.
var newerSyntax = []*regexp.Regexp{
	// unsafe extern "C" { safe fn f(); }
	regexp.MustCompile(`\b(unsafe)\s+extern\b`),
	regexp.MustCompile(`\b(safe)\s+(?:fn|static)\b`),
	// async || {}, async move |x| {}
	regexp.MustCompile(`\b(async)\s+(?:move\s*)?\|`),
	// &raw const x, &raw mut x
	regexp.MustCompile(`&\s*(raw\s+const)\b`),
	regexp.MustCompile(`&\s*(raw)\s+mut\b`),
}

// normalize blanks the keywords matched by newerSyntax with spaces. Byte
// offsets, lines and columns are unchanged, and no identifier the
// extractor reports is touched. source is copied only when something
// matches.
func normalize(source []byte) []byte {
	out := source
	copied := false
	for _, re := range newerSyntax {
		for _, m := range re.FindAllSubmatchIndex(out, -1) {
			if !copied {
				out = append([]byte(nil), source...)
				copied = true
			}
			for i := m[2]; i < m[3]; i++ {
				if out[i] != '\n' && out[i] != '\r' {
					out[i] = ' '
				}
			}
		}
	}
	return out
}

// Error is returned when a file does not conform to the grammar.
type Error struct {
	Path   string
	Line   int
	Column int
	Near   string
}

func (e *Error) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("failed to parse %s:%d:%d: syntax error", e.Path, e.Line, e.Column)
	}
	return fmt.Sprintf("failed to parse %s:%d:%d: syntax error near %q", e.Path, e.Line, e.Column, e.Near)
}

// Extractor parses files and extracts their tags. It owns a single parser
// and must not be used from more than one goroutine.
type Extractor struct {
	lang       *lang.Language
	parser     *sitter.Parser
	query      *sitter.Query
	entryPoint string
}

// NewExtractor creates an extractor for l. An empty entryPoint falls back to
// the language default.
func NewExtractor(l *lang.Language, entryPoint string) (*Extractor, error) {
	q, err := l.GetTagQuery()
	if err != nil {
		return nil, fmt.Errorf("loading %s tag query: %w", l.Name, err)
	}
	if entryPoint == "" {
		entryPoint = l.EntryPoint
	}
	return &Extractor{
		lang:       l,
		parser:     l.NewParser(),
		query:      q,
		entryPoint: entryPoint,
	}, nil
}

// Close releases the underlying parser.
func (e *Extractor) Close() {
	e.parser.Close()
}

// Extract parses source and returns its tags. The tree is released before
// returning. A syntax error yields *Error.
func (e *Extractor) Extract(ctx context.Context, path string, source []byte) ([]model.Tag, error) {
	if len(source) == 0 {
		return nil, nil
	}

	source = normalize(source)
	tree, err := Parse(ctx, e.parser, source, path)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return ExtractTags(e.lang, e.query, tree, source, path, e.entryPoint), nil
}

// Parse parses source into a tree. Unlike tree-sitter itself, it treats any
// ERROR or MISSING node as a failure.
func Parse(ctx context.Context, parser *sitter.Parser, source []byte, path string) (*sitter.Tree, error) {
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		perr := syntaxError(root, source, path)
		tree.Close()
		return nil, perr
	}
	return tree, nil
}

func syntaxError(root *sitter.Node, source []byte, path string) *Error {
	n := firstError(root)
	if n == nil {
		n = root
	}
	pt := n.StartPoint()
	near := strings.TrimSpace(lang.NodeText(n, source))
	if i := strings.IndexByte(near, '\n'); i >= 0 {
		near = near[:i]
	}
	if len(near) > 40 {
		near = near[:40]
	}
	return &Error{
		Path:   path,
		Line:   int(pt.Row) + 1,
		Column: int(pt.Column) + 1,
		Near:   near,
	}
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return nil
}

// ExtractTags runs the tag query over tree and returns definition and
// reference tags. Definitions of entryPoint and associated functions are
// dropped. Each import produces one dependency reference per root segment.
// filePath is used only for Tag.File.
func ExtractTags(l *lang.Language, query *sitter.Query, tree *sitter.Tree, source []byte, filePath, entryPoint string) []model.Tag {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var tags []model.Tag

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var nameNode *sitter.Node
		var captureName string
		var defNode *sitter.Node

		for _, c := range match.Captures {
			cname := query.CaptureNameForId(c.Index)
			if cname == "name" {
				nameNode = c.Node
			} else if _, ok := captureMap[cname]; ok {
				captureName = cname
				defNode = c.Node
			}
		}

		if nameNode == nil || captureName == "" || defNode == nil {
			continue
		}

		cm := captureMap[captureName]
		line := int(nameNode.StartPoint().Row) + 1

		if cm.SymbolKind == model.Dependency {
			for _, root := range importRoots(nameNode, source) {
				tags = append(tags, model.Tag{
					Name:       root,
					Kind:       cm.Kind,
					SymbolKind: cm.SymbolKind,
					Line:       line,
					File:       filePath,
				})
			}
			continue
		}

		name := lang.NodeText(nameNode, source)
		if cm.Kind == model.Definition && cm.SymbolKind == model.Function {
			if name == entryPoint {
				continue
			}
			if l.IsAssociated != nil && l.IsAssociated(defNode) {
				continue
			}
		}

		tags = append(tags, model.Tag{
			Name:       name,
			Kind:       cm.Kind,
			SymbolKind: cm.SymbolKind,
			Line:       line,
			File:       filePath,
		})
	}

	return tags
}

// importRoots returns the first path segment of every path named by a use
// clause. Grouped clauses (`use {a::x, b};`) yield one root per member.
func importRoots(node *sitter.Node, source []byte) []string {
	switch node.Type() {
	case "identifier", "crate", "self", "super", "metavariable":
		return []string{lang.NodeText(node, source)}
	case "scoped_identifier":
		// `::serde::X` has no path on its innermost segment.
		if p := node.ChildByFieldName("path"); p != nil {
			return importRoots(p, source)
		}
		if n := node.ChildByFieldName("name"); n != nil {
			return importRoots(n, source)
		}
	case "scoped_use_list":
		if p := node.ChildByFieldName("path"); p != nil {
			return importRoots(p, source)
		}
		if list := node.ChildByFieldName("list"); list != nil {
			return importRoots(list, source)
		}
	case "use_as_clause":
		if p := node.ChildByFieldName("path"); p != nil {
			return importRoots(p, source)
		}
	case "use_wildcard":
		if node.NamedChildCount() > 0 {
			return importRoots(node.NamedChild(0), source)
		}
	case "use_list":
		var roots []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			roots = append(roots, importRoots(node.NamedChild(i), source)...)
		}
		return roots
	}
	return nil
}
