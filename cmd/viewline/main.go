// Package main is the entry point for the viewline renderer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/viewline/internal/config"
	"github.com/dshills/viewline/internal/logging"
	"github.com/dshills/viewline/internal/renderer/viewline"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	ConfigPath string
	Language   string
	Style      string
	Whitespace string
	Find       string
	Wrap       int
	Terminal   bool
	Watch      bool
	Verbose    bool
	File       string
}

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	l, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer l.Sync() //nolint:errcheck

	viewline.SetLogger(l)
	viewline.EnableAssertions(cfg.Log.Development)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.NewContext(ctx, l)

	doc, err := loadDocument(ctx, cfg, opts, stdin)
	if err != nil {
		l.Error("load document", zap.String("file", opts.File), zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.Terminal {
		err = runTerminal(ctx, cfg, opts, doc)
	} else {
		err = writeHTML(ctx, stdout, doc, cfg.WrapEngine())
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("viewline", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.Language, "lang", "", "Force a highlighting language")
	fs.StringVar(&opts.Style, "style", "", "Color style for the terminal view")
	fs.StringVar(&opts.Whitespace, "ws", "", "Whitespace rendering (none, boundary, selection, trailing, all)")
	fs.StringVar(&opts.Find, "find", "", "Decorate every occurrence of a string")
	fs.IntVar(&opts.Wrap, "wrap", 0, "Wrap HTML output at this column")
	fs.BoolVar(&opts.Terminal, "term", false, "Show the file in the terminal instead of printing HTML")
	fs.BoolVar(&opts.Watch, "watch", false, "Reload the terminal view when the file changes (with -term)")
	fs.BoolVar(&opts.Verbose, "v", false, "Verbose logging with render checks")
	fs.BoolVar(&showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "viewline - render source lines with a character mapping\n\n")
		fmt.Fprintf(stderr, "Usage: viewline [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  viewline main.go             Print each line as HTML\n")
		fmt.Fprintf(stderr, "  viewline -ws all main.go     Show all whitespace\n")
		fmt.Fprintf(stderr, "  viewline -wrap 80 main.go    Wrap long lines\n")
		fmt.Fprintf(stderr, "  viewline -term main.go       Browse in the terminal\n")
		fmt.Fprintf(stderr, "  viewline -term -watch log.go Follow changes to a file\n")
		fmt.Fprintf(stderr, "  cat x.rs | viewline -lang rust\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if showVersion {
		fmt.Fprintf(stderr, "viewline %s\n", version)
		fmt.Fprintf(stderr, "Commit: %s\n", commit)
		fmt.Fprintf(stderr, "Built: %s\n", date)
		return opts, flag.ErrHelp
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.File = fs.Arg(0)
	default:
		fs.Usage()
		return opts, errUsage
	}

	if opts.Watch && (!opts.Terminal || opts.File == "" || opts.File == "-") {
		fmt.Fprintf(stderr, "Error: -watch needs -term and a file\n")
		return opts, errUsage
	}
	return opts, nil
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Language != "" {
		cfg.Highlight.Language = opts.Language
	}
	if opts.Style != "" {
		cfg.Highlight.Style = opts.Style
	}
	if opts.Whitespace != "" {
		cfg.Render.RenderWhitespace = opts.Whitespace
	}
	if opts.Wrap != 0 {
		cfg.Render.WrapColumn = opts.Wrap
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
