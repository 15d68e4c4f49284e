package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/go-resty/resty/v2"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/mcncl/nestedcsv/internal/analyzer"
	"github.com/mcncl/nestedcsv/internal/config"
	"github.com/mcncl/nestedcsv/internal/converter"
	"github.com/mcncl/nestedcsv/internal/errors"
	"github.com/mcncl/nestedcsv/internal/logging"
	"github.com/mcncl/nestedcsv/internal/locator"
	"github.com/mcncl/nestedcsv/internal/models"
	"github.com/mcncl/nestedcsv/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string        `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	URL         string        `help:"URL to fetch JSON from (http or https)." short:"u" name:"url"`
	Output      string        `help:"Path to output CSV file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string        `help:"Path to config file. If not specified, searches for .nestedcsv.yml in the current and parent directories." short:"c" type:"path"`
	HeaderCase  string        `help:"Rewrite header path segments: none, snake, camel, lower-camel, kebab." name:"header-case"`
	Check       bool          `help:"Print a summary of the JSON structure instead of CSV."`
	Timeout     time.Duration `help:"Timeout for --url requests." default:"30s"`
	Debug       bool          `help:"Enable debug logging." short:"d"`
	Version     bool          `help:"Show version information." short:"v"`
	Interactive bool          `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *zap.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	app := kong.Must(&CLI,
		kong.Name("nestedcsv"),
		kong.Description("A tool to convert nested JSON to CSV"),
		kong.UsageOnError(),
	)

	// No arguments at all means interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	_, err := app.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("nestedcsv version %s\n", Version)
		return
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, CLI.HeaderCase, CLI.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("failed to load configuration", err)))
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.Dev.Debug)
	defer func() { _ = logger.Sync() }()
	if configPath != "" {
		logger.Debug("loaded config", zap.String("path", configPath))
	}

	err = run(&Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: logger,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: nestedcsv --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	ctx.defaults()

	// 1. Parse JSON input
	root, err := parseInput()
	if err != nil {
		return err
	}

	// 2. Report the structure only
	if CLI.Check {
		return writeSummary(ctx, root)
	}

	// 3. Convert
	conv := converter.New(
		converter.WithHeaderCase(ctx.Config.HeaderCase()),
		converter.WithLogger(ctx.Logger),
	)
	result, err := conv.Convert(root)
	if err != nil {
		return err
	}

	if ctx.Config.Output.WarnNested && analyzer.HasNestedStructure(root) {
		printHint(ctx.Stderr, "Input contains nested structure: objects were flattened into dot-path columns, other arrays are kept as JSON text.")
	}

	if result.CSV == "" {
		if result.Found {
			printHint(ctx.Stderr, fmt.Sprintf("The array at '%s' is empty, nothing to convert.", displayPath(result.Path)))
		} else {
			printHint(ctx.Stderr, "No convertible array found in the input.")
		}
		return nil
	}
	if len(result.Headers) == 0 {
		printHint(ctx.Stderr, fmt.Sprintf("Records at '%s' carry no object fields, rows are empty.", displayPath(result.Path)))
	}

	// 4. Output the result
	return writeOutput(ctx, result.CSV)
}

func (ctx *Context) defaults() {
	if ctx.Config == nil {
		ctx.Config = config.NewConfig()
	}
	if ctx.Logger == nil {
		ctx.Logger = zap.NewNop()
	}
	if ctx.Stdout == nil {
		ctx.Stdout = os.Stdout
	}
	if ctx.Stderr == nil {
		ctx.Stderr = os.Stderr
	}
}

// parseInput reads JSON from a URL, a file or stdin
func parseInput() (models.Value, error) {
	if CLI.Input != "" && CLI.URL != "" {
		return nil, errors.NewInputError("cannot specify both --input and --url", errors.ErrInvalidFilePath)
	}

	if CLI.URL != "" {
		data, err := fetchURL(context.Background(), CLI.URL, CLI.Timeout)
		if err != nil {
			return nil, err
		}
		return parser.ParseBytes(data)
	}

	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Piped input
	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseBytes(jsonData)
}

// fetchURL downloads a JSON document over http or https
func fetchURL(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return nil, errors.NewInputError(fmt.Sprintf("invalid URL scheme in '%s': only http and https are supported", rawURL), errors.ErrInvalidFilePath)
	}

	client := resty.New().SetTimeout(timeout)
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(rawURL)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to fetch '%s'", rawURL), err)
	}
	if resp.IsError() {
		return nil, errors.NewInputError(fmt.Sprintf("fetching '%s' returned status %d", rawURL, resp.StatusCode()), nil)
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("empty response from '%s'", rawURL), errors.ErrEmptyInput)
	}
	return body, nil
}

// writeOutput writes CSV to file or stdout
func writeOutput(ctx *Context, csv string) error {
	if CLI.Output != "" {
		data := csv
		if ctx.Config.Output.TrailingNewline {
			data += "\n"
		}
		err := os.WriteFile(CLI.Output, []byte(data), 0o644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(ctx.Stderr, "CSV written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Fprintln(ctx.Stdout, csv)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// writeSummary prints the --check report
func writeSummary(ctx *Context, root models.Value) error {
	summary := analyzer.NewAnalyzer().Analyze(root)

	var b strings.Builder
	fmt.Fprintf(&b, "root:      %s\n", summary.RootKind)
	fmt.Fprintf(&b, "nested:    %t\n", summary.Nested)
	fmt.Fprintf(&b, "depth:     %d\n", summary.MaxDepth)
	fmt.Fprintf(&b, "objects:   %d\n", summary.Objects)
	fmt.Fprintf(&b, "arrays:    %d\n", summary.Arrays)
	fmt.Fprintf(&b, "leaves:    %d\n", summary.Leaves)

	if located, found := locator.Locate(root); found {
		fmt.Fprintf(&b, "records:   %d at '%s'\n", len(located.Array), displayPath(located.Path))
		fmt.Fprintf(&b, "context:   %d field(s)\n", len(located.Context))
	} else {
		b.WriteString("records:   none\n")
	}

	if _, err := io.WriteString(ctx.Stdout, b.String()); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

// printHint writes a notice to w, colored when w is a terminal
func printHint(w io.Writer, msg string) {
	hint := color.New(color.FgYellow)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		hint.EnableColor()
	} else {
		hint.DisableColor()
	}
	_, _ = hint.Fprintln(w, msg)
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Value, error) {
	fmt.Fprintln(os.Stderr, "nestedcsv Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
