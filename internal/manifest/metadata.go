package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds a single `cargo metadata` invocation.
const DefaultTimeout = 30 * time.Second

// ErrCargoMetadata marks a failed or timed-out cargo invocation.
var ErrCargoMetadata = errors.New("failed to get cargo metadata")

// MetadataLister asks cargo itself, through `cargo metadata`, which
// dependencies the root package declares.
type MetadataLister struct {
	cargo   string
	timeout time.Duration
	logger  *log.Logger
}

// NewMetadataLister creates a lister that shells out to cargo. A zero timeout
// selects DefaultTimeout.
func NewMetadataLister(timeout time.Duration, logger *log.Logger) *MetadataLister {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MetadataLister{cargo: "cargo", timeout: timeout, logger: logger}
}

type metadata struct {
	Packages []struct {
		Name         string `json:"name"`
		ManifestPath string `json:"manifest_path"`
		Dependencies []struct {
			Name string `json:"name"`
		} `json:"dependencies"`
	} `json:"packages"`
}

// Dependencies runs cargo metadata for root/Cargo.toml and returns the sorted
// dependency names of the package declared by that manifest.
func (l *MetadataLister) Dependencies(ctx context.Context, root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	manifestPath := filepath.Join(abs, FileName)
	if _, err := os.Stat(manifestPath); err != nil {
		return nil, &Error{Path: manifestPath, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, l.cargo, "metadata",
		"--format-version", "1",
		"--no-deps",
		"--manifest-path", manifestPath,
	)
	cmd.Dir = abs
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if l.logger != nil {
		l.logger.Debug("Running cargo metadata", "manifest", manifestPath)
	}
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, &Error{Path: manifestPath, Err: fmt.Errorf("%w: %w", ErrCargoMetadata, err)}
	}

	deps, err := parseMetadata(out, manifestPath)
	if err != nil {
		return nil, &Error{Path: manifestPath, Err: err}
	}
	return deps, nil
}

// parseMetadata selects the package whose manifest is manifestPath.
func parseMetadata(data []byte, manifestPath string) ([]string, error) {
	var md metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("decoding cargo metadata: %w", err)
	}

	want := canonical(manifestPath)
	for _, pkg := range md.Packages {
		if canonical(pkg.ManifestPath) != want {
			continue
		}
		names := make(map[string]struct{}, len(pkg.Dependencies))
		for _, d := range pkg.Dependencies {
			names[d.Name] = struct{}{}
		}
		deps := make([]string, 0, len(names))
		for name := range names {
			deps = append(deps, name)
		}
		sort.Strings(deps)
		return deps, nil
	}
	return nil, ErrNoRootPackage
}

func canonical(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return filepath.Clean(path)
}
