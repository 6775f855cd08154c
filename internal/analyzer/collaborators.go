package analyzer

import (
	"context"

	"github.com/Dhir0808/cargo-rust-unused/internal/model"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=collaborators.go -destination=mocks/collaborators.gen.go -package=mocks

// SourceLocator yields the source files of the project at root.
type SourceLocator interface {
	Locate(root string) ([]string, error)
}

// DependencyLister yields the direct dependency names declared by the
// project's manifest.
type DependencyLister interface {
	Dependencies(ctx context.Context, root string) ([]string, error)
}

// TagExtractor parses one file and returns its declaration and usage tags.
// It returns an error when the source does not parse.
type TagExtractor interface {
	Extract(ctx context.Context, path string, source []byte) ([]model.Tag, error)
}
