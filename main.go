// cargo-rust-unused reports unused dependencies, functions and modules in a
// Cargo project.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Dhir0808/cargo-rust-unused/internal/analyzer"
	"github.com/Dhir0808/cargo-rust-unused/internal/config"
	"github.com/Dhir0808/cargo-rust-unused/internal/discover"
	"github.com/Dhir0808/cargo-rust-unused/internal/index"
	"github.com/Dhir0808/cargo-rust-unused/internal/lang"
	"github.com/Dhir0808/cargo-rust-unused/internal/manifest"
	"github.com/Dhir0808/cargo-rust-unused/internal/parse"
	"github.com/Dhir0808/cargo-rust-unused/internal/render"
)

var version = "dev"

// cargoSubcommand is the argument cargo passes first when the binary is run
// as `cargo rust-unused`.
const cargoSubcommand = "rust-unused"

var errNotDir = errors.New("not a directory")

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(stripCargoArg(os.Args[1:]))
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// run executes the CLI without fang's styled error output.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(stripCargoArg(args))
	return root.ExecuteContext(ctx)
}

type rootOptions struct {
	path       string
	configFile string
	verbose    bool
	noColor    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "cargo-rust-unused [path]",
		Short: "Detect unused code in Rust projects",
		Long: `Detect unused dependencies, functions and modules in a Cargo project.

Every .rs file under src/ is parsed. A function counts as used when any call
anywhere in the project names it; a dependency counts as used when any use
declaration starts with its name. Functions only referenced as values, called
through traits or used by derive macros are reported as unused.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, &opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("cargo-rust-unused {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVar(&opts.path, "path", ".", "path to the Rust project")
	flags.StringP("format", "f", string(render.Text), "output format: text, json, yaml or toon")
	flags.Bool("include-private", false, "include private items in the analysis (every item is already analyzed)")
	flags.Bool("locations", false, "show where unused functions and modules are declared")
	flags.String("entrypoint", "main", "function name that is never reported as unused")
	flags.StringSlice("exclude", nil, "gitignore-style pattern of sources to skip (repeatable)")
	flags.String("manifest-source", config.SourceTOML, "how dependencies are listed: toml or cargo")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is <path>/"+config.FileName+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newInitCmd())
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *rootOptions) error {
	root := opts.path
	if len(args) > 0 {
		root = args[0]
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return classifyError(fmt.Errorf("root path: %w", err))
	}
	if !info.IsDir() {
		return classifyError(fmt.Errorf("%s: %w", root, errNotDir))
	}

	cfg, cfgPath, err := config.Load(config.LoadOptions{
		ProjectRoot: root,
		ConfigFile:  opts.configFile,
		Flags:       cmd.Flags(),
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	level := cfg.Level()
	if opts.verbose {
		level = log.DebugLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), level)
	if cfgPath != "" {
		logger.Debug("Loaded config", "path", cfgPath)
	}
	if cfg.IncludePrivate {
		logger.Debug("include-private has no effect: private items are always analyzed")
	}

	extractor, err := parse.NewExtractor(lang.Rust(), cfg.EntryPoint)
	if err != nil {
		return err
	}
	defer extractor.Close()

	var sites *index.Index
	if cfg.Locations {
		sites = index.New()
	}

	a := analyzer.New(
		discover.Locator{Options: discover.Options{Exclude: cfg.Exclude}},
		newLister(cfg, logger),
		extractor,
		analyzer.WithLogger(logger),
		analyzer.WithIndex(sites),
	)

	logger.Info("Analyzing project...", "path", root)
	report, err := a.Analyze(cmd.Context(), root)
	if err != nil {
		return classifyError(err)
	}

	return render.Render(cmd.OutOrStdout(), cfg.Format, report, render.Options{
		Project: filepath.Base(root),
		Sites:   sites,
		NoColor: opts.noColor,
	})
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "rust-unused",
		Level:  level,
	})
}

func newLister(cfg *config.Config, logger *log.Logger) analyzer.DependencyLister {
	if cfg.Manifest.Source == config.SourceCargo {
		return manifest.NewMetadataLister(cfg.Manifest.Timeout, logger)
	}
	return manifest.NewTOMLLister(logger)
}

// classifyError prefixes err with the failure class shown to the user.
func classifyError(err error) error {
	var (
		parseErr    *parse.Error
		manifestErr *manifest.Error
		pathErr     *fs.PathError
	)
	switch {
	case errors.As(err, &parseErr):
		return fmt.Errorf("parse failure: %w", err)
	case errors.Is(err, manifest.ErrNoRootPackage),
		errors.Is(err, manifest.ErrCargoMetadata):
		return fmt.Errorf("metadata failure: %w", err)
	case errors.Is(err, discover.ErrNoManifest),
		errors.Is(err, discover.ErrNoSourceDir),
		errors.Is(err, errNotDir),
		errors.Is(err, fs.ErrNotExist),
		errors.As(err, &pathErr):
		return fmt.Errorf("io failure: %w", err)
	case errors.As(err, &manifestErr):
		return fmt.Errorf("metadata failure: %w", err)
	default:
		return err
	}
}

// stripCargoArg drops the subcommand name cargo inserts when it runs an
// external `cargo-<name>` binary.
func stripCargoArg(args []string) []string {
	if len(args) > 0 && args[0] == cargoSubcommand {
		return args[1:]
	}
	return args
}
