package ttbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/hayeah/ttbuild/internal/metrics"
	"github.com/hayeah/ttbuild/manifest"
	"golang.org/x/term"
)

// SupportedOutputFormats lists the values accepted by --output-format.
var SupportedOutputFormats = []string{"store"}

// BuildArgs defines the command-line arguments for tt-build
type BuildArgs struct {
	InputDir     string `arg:"-i,--input-directory" default:"." help:"The directory of the plugin to be processed. Must contain a plugin.manifest file."`
	OutputDir    string `arg:"-o,--output-directory" default:"output" help:"The directory where the optimized plugin archive will be saved."`
	OutputFormat string `arg:"-f,--output-format" default:"store" help:"The format of the output archive. Supported formats are: store."`
	ConfigFile   string `arg:"-c,--config" help:"TOML config file (default: <input>/.tt-build.toml if present)"`
	DryRun       bool   `arg:"--dry-run" help:"Print the archive plan without writing anything"`
	Verbose      bool   `arg:"-v,--verbose" help:"Log every analysed plugin"`
	Summary      bool   `arg:"--summary" help:"Print source and output sizes of rewritten files"`
}

func (BuildArgs) Description() string {
	return "Optimizes a plugin directory into an archive for the plugin store."
}

// ParseBuildArgs parses argv (without the program name).
func ParseBuildArgs(argv []string) (*BuildArgs, error) {
	args := &BuildArgs{}
	p, err := arg.NewParser(arg.Config{Program: "tt-build"}, args)
	if err != nil {
		return nil, err
	}
	if err := p.Parse(argv); err != nil {
		if errors.Is(err, arg.ErrHelp) {
			p.WriteHelp(os.Stdout)
		}
		return nil, err
	}
	return args, nil
}

// ProvideBuildArgs parses the process arguments, exiting on --help or a
// usage error.
func ProvideBuildArgs() *BuildArgs {
	args := &BuildArgs{}
	arg.MustParse(args)
	return args
}

// ProvideLogger logs to stderr, at debug level when --verbose is set.
func ProvideLogger(args *BuildArgs) *slog.Logger {
	level := slog.LevelInfo
	if args.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ProvideMetrics constructs OutputMetrics with a byte and line counter.
func ProvideMetrics() *metrics.OutputMetrics {
	return metrics.NewOutputMetrics(&metrics.SimpleCounter{}, 2)
}

// BuildCLI represents the tt-build CLI application
type BuildCLI struct {
	Args    *BuildArgs
	Logger  *slog.Logger
	Metrics *metrics.OutputMetrics
	Stdout  io.Writer
}

// NewBuildCLI wires the CLI application.
func NewBuildCLI(args *BuildArgs, logger *slog.Logger, m *metrics.OutputMetrics) *BuildCLI {
	return &BuildCLI{Args: args, Logger: logger, Metrics: m, Stdout: os.Stdout}
}

// Run validates the invocation and builds the archive.
func (cli *BuildCLI) Run(ctx context.Context) error {
	defer cli.Metrics.Wait()

	b, err := cli.prepare()
	if err != nil {
		return err
	}

	cli.Logger.Info("processing plugin", "title", b.Manifest.Title(), "version", b.Manifest.Version())

	if cli.Args.DryRun {
		entries, err := b.Plan()
		if err != nil {
			return err
		}
		return WritePlan(cli.Stdout, b.ArchivePath(), entries)
	}

	if err := os.MkdirAll(b.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := b.Build(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.Stdout, "Archive written to %s\n", out)

	if cli.Args.Summary {
		return metrics.WriteSizeSummary(cli.Stdout, cli.Metrics, termWidth())
	}
	return nil
}

// prepare checks the arguments and the plugin directory, and returns a
// builder ready to run.
func (cli *BuildCLI) prepare() (*Builder, error) {
	if !isSupportedFormat(cli.Args.OutputFormat) {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("unsupported output format: %s. Supported formats are: %s",
			cli.Args.OutputFormat, strings.Join(SupportedOutputFormats, ", "))}
	}

	inputDir, err := filepath.Abs(cli.Args.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input directory: %w", err)
	}
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("input directory %s does not exist", inputDir), Err: err}
	}

	manifestPath := filepath.Join(inputDir, manifest.FileName)
	m, err := manifest.Load(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("manifest file %s does not exist", manifestPath)}
		}
		return nil, &ConfigurationError{Msg: fmt.Sprintf("manifest file %s is invalid", manifestPath), Err: err}
	}

	cfg, err := LoadConfig(cli.Args.ConfigFile, inputDir)
	if err != nil {
		return nil, err
	}

	outputDir, err := filepath.Abs(cli.Args.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	return &Builder{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Config:    cfg,
		Manifest:  m,
		Metrics:   cli.Metrics,
		Logger:    cli.Logger,
	}, nil
}

func isSupportedFormat(format string) bool {
	for _, f := range SupportedOutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// termWidth returns the width of the terminal, or 80 as a fallback.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // stdout is not a TTY
	}
	return width
}
