package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

func init() {
	Languages["rust"] = &Language{
		Name:         "rust",
		Extensions:   []string{".rs"},
		EntryPoint:   "main",
		lang:         rust.GetLanguage(),
		IsAssociated: rustIsAssociated,
	}
}

// Rust returns the registered Rust language.
func Rust() *Language {
	return Languages["rust"]
}

// rustIsAssociated checks for function_item → declaration_list → impl_item|trait_item.
// A declaration_list under mod_item holds free items and does not count.
func rustIsAssociated(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Type() != "declaration_list" {
		return false
	}
	owner := parent.Parent()
	if owner == nil {
		return false
	}
	switch owner.Type() {
	case "impl_item", "trait_item":
		return true
	}
	return false
}
