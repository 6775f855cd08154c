package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	sentinelStart = "# cargo-rust-unused:start"
	sentinelEnd   = "# cargo-rust-unused:end"

	hookShebang = "#!/bin/sh"
)

var errNotGitRepo = errors.New("not a git repository")

// newInitCmd builds the `init` subcommand, which installs (or updates) a
// cargo-rust-unused block in the project's git pre-commit hook.
func newInitCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Install a git pre-commit hook that runs the analysis",
		Long: `Write a cargo-rust-unused block to .git/hooks/pre-commit. The block is wrapped
in sentinel comments so it can be updated in place on subsequent runs without
touching the rest of the hook. Creates the hook if it does not exist.

path defaults to the current directory and must be the root of a git
repository.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runInit(cmd, root, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the resulting hook without modifying it")
	return cmd
}

func runInit(cmd *cobra.Command, root string, dryRun bool) error {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", root, errNotGitRepo)
	}

	path := filepath.Join(gitDir, "hooks", "pre-commit")
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	updated := applyBlock(string(existing), generateBlock())

	if dryRun {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), updated)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(updated), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("making %s executable: %w", path, err)
	}

	newLogger(cmd.ErrOrStderr(), log.InfoLevel).Info("Installed pre-commit hook", "path", path)
	return nil
}

// generateBlock returns the sentinel-wrapped hook snippet.
func generateBlock() string {
	body := `# Report unused dependencies, functions and modules before each commit.
# Fails the commit only when the analysis itself fails.
if command -v cargo-rust-unused >/dev/null 2>&1; then
    cargo-rust-unused "$(git rev-parse --show-toplevel)" || exit 1
fi`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applyBlock inserts block into a hook script, replacing an existing sentinel
// block if present or appending if not. An empty script gets a shebang.
func applyBlock(content, block string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + block + content[end+len(sentinelEnd):]
	}

	if strings.TrimSpace(content) == "" {
		return hookShebang + "\n\n" + block + "\n"
	}

	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + block + "\n"
}
