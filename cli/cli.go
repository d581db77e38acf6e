// Package cli implements the sie command line tool.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/robinvdvleuten/sie/ast"
	"github.com/robinvdvleuten/sie/config"
	"github.com/robinvdvleuten/sie/loader"
	"github.com/robinvdvleuten/sie/logger"
	"github.com/robinvdvleuten/sie/output"
	"github.com/robinvdvleuten/sie/telemetry"
)

const stdinName = "<stdin>"

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	warningSymbol = "!"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD75F"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})

	// stdin is read for "-" arguments.
	stdin io.Reader = os.Stdin
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printWarning(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		warningStyle.Render(warningSymbol),
		message,
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// promptYesNo prompts the user with a yes/no question.
// Returns false by default if stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	f, ok := stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// session carries what every command needs: the configuration, a loader
// configured from it, and a context with the logger and telemetry.
type session struct {
	ctx    context.Context
	cfg    *config.Config
	loader *loader.Loader
	stderr io.Writer

	collector telemetry.Collector
	timer     telemetry.Timer
	once      sync.Once
}

// start loads the configuration and prepares the context of a command run.
func (g *Globals) start(kctx *kong.Context, name string) (*session, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	log := logger.New(logger.Config{Level: level, Pretty: cfg.Log.Pretty}, kctx.Stderr)
	ctx := logger.WithContext(context.Background(), log)

	parserOpts, err := cfg.ParserOptions()
	if err != nil {
		return nil, err
	}
	codec, err := cfg.Codec()
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		loader: loader.New(loader.WithCodec(codec), loader.WithParserOptions(parserOpts...)),
		stderr: kctx.Stderr,
	}

	if g.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		ctx = telemetry.WithCollector(ctx, s.collector)
		s.timer = s.collector.Start(name)
		ctx = telemetry.WithRootTimer(ctx, s.timer)
	}
	s.ctx = ctx

	return s, nil
}

// finish prints the telemetry report, once.
func (s *session) finish() {
	s.once.Do(func() {
		if s.collector == nil {
			return
		}
		s.timer.End()
		_, _ = fmt.Fprintln(s.stderr)
		s.collector.Report(s.stderr, output.NewStyles(s.stderr))
	})
}

// FileOrStdin accepts either a file path or "-" for stdin.
// For stdin: Filename="<stdin>", Contents populated.
// For files: Filename set, Contents nil (read by loader).
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "-" || filename == "" {
		return f.readStdin()
	}

	if _, err := os.Stat(filename); err != nil {
		return err
	}
	f.Filename = filename
	f.Contents = nil

	return nil
}

func (f *FileOrStdin) readStdin() error {
	contents, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = stdinName
	f.Contents = contents
	return nil
}

// EnsureContents populates Contents from stdin if Filename is empty.
func (f *FileOrStdin) EnsureContents() error {
	if f.Filename == "" {
		return f.readStdin()
	}
	return nil
}

// IsStdin reports whether the input was read from stdin.
func (f *FileOrStdin) IsStdin() bool {
	return f.Filename == stdinName
}

// Base returns the file name without its directory.
func (f *FileOrStdin) Base() string {
	if f.IsStdin() {
		return f.Filename
	}
	return filepath.Base(f.Filename)
}

// GetAbsoluteFilename returns the absolute path, or "<stdin>" for stdin.
func (f *FileOrStdin) GetAbsoluteFilename() string {
	if f.IsStdin() {
		return f.Filename
	}
	absPath, err := filepath.Abs(f.Filename)
	if err != nil {
		return f.Filename
	}
	return absPath
}

// Source returns the decoded text for error context.
func (f *FileOrStdin) Source(ctx context.Context, ldr *loader.Loader) ([]byte, error) {
	if f.IsStdin() {
		return ldr.SourceReader(bytes.NewReader(f.Contents))
	}
	return ldr.Source(ctx, f.Filename)
}

// Load parses the input with ldr.
func (f *FileOrStdin) Load(ctx context.Context, ldr *loader.Loader) (*ast.Document, error) {
	if f.IsStdin() {
		return ldr.LoadReader(ctx, f.Filename, bytes.NewReader(f.Contents))
	}
	return ldr.Load(ctx, f.GetAbsoluteFilename())
}

// Main parses args, runs the selected command and reports its outcome.
func Main(args []string, stdout, stderr io.Writer) CommandResult {
	var cli struct {
		Version kong.VersionFlag `help:"Show version information."`
		Commands
	}

	parser, err := kong.New(&cli,
		kong.Name("sie"),
		kong.Description("Read, check and write SIE accounting files."),
		kong.Vars{"version": BuildVersion()},
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Bind(&cli.Globals),
	)
	if err != nil {
		return Failure(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		printError(stderr, err.Error())
		return CommandResult{ExitCode: ExitUsage, Err: err}
	}

	if err := kctx.Run(); err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return CommandResult{ExitCode: cmdErr.ExitCode(), Err: err}
		}
		printError(stderr, err.Error())
		return Failure(err)
	}

	return Success()
}

// BuildVersion returns the version string shown by --version.
func BuildVersion() string {
	version := Version
	if version == "" {
		version = "dev"
	}
	if CommitSHA == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, strings.TrimSpace(CommitSHA))
}
