package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/mcncl/jsonview/internal/config"
	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/formatter"
	"github.com/mcncl/jsonview/internal/generator"
	"github.com/mcncl/jsonview/internal/layout"
	"github.com/mcncl/jsonview/internal/loader"
	"github.com/mcncl/jsonview/internal/logging"
	"github.com/mcncl/jsonview/internal/server"
)

// ShowCmd loads the document once and prints the page.
type ShowCmd struct {
	Format   string `help:"Output format (text, html, json)." short:"f"`
	Color    string `help:"Colour text output (auto, always, never)."`
	Raw      bool   `help:"Append the raw JSON to the page." short:"R"`
	Humanize bool   `help:"Display keys as words, e.g. 'is accessible' for 'isAccessible'." short:"H"`
}

// ServeCmd serves the page over HTTP, loading the document on every view.
type ServeCmd struct {
	Addr     string `help:"Address to listen on." short:"a"`
	Humanize bool   `help:"Display keys as words, e.g. 'is accessible' for 'isAccessible'." short:"H"`
}

// CLI defines the command-line interface
var CLI struct {
	URL     string        `help:"URL of the JSON document. A bare host loads /bokning.json." short:"u"`
	File    string        `help:"Path to a JSON file to load instead of a URL." short:"i" type:"path"`
	Layout  string        `help:"Page layout (document, booking)." short:"l"`
	Timeout time.Duration `help:"Request timeout, e.g. 5s." short:"t"`
	Config  string        `help:"Path to config file. Defaults to the nearest .jsonview.yml." short:"c" type:"path"`
	Debug   bool          `help:"Enable debug logging." short:"d"`
	Version bool          `help:"Show version information." short:"v"`

	Show  ShowCmd  `cmd:"" default:"withargs" help:"Load the document and print it (default)."`
	Serve ServeCmd `cmd:"" help:"Serve the page over HTTP."`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdout io.Writer
	// IsTerminal reports whether Stdout is a terminal, for colour auto mode.
	IsTerminal bool
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsonview"),
		kong.Description("Load a JSON document and display it as a readable tree"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// kong.UsageOnError has already printed usage
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsonview version %s\n", Version)
		return
	}

	cfg, err := config.LoadConfigWithCLI(CLI.Config, overrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonview --help\n")
		os.Exit(1)
	}

	appCtx := &Context{
		Config:     cfg,
		Logger:     logging.New(os.Stderr, cfg.Dev.Debug),
		Stdout:     os.Stdout,
		IsTerminal: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	if err := kctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// overrides collects the flags given on the command line.
func overrides() config.Overrides {
	return config.Overrides{
		URL:      CLI.URL,
		File:     CLI.File,
		Timeout:  CLI.Timeout,
		Layout:   CLI.Layout,
		Format:   CLI.Show.Format,
		Color:    CLI.Show.Color,
		Addr:     CLI.Serve.Addr,
		Raw:      CLI.Show.Raw,
		Humanize: CLI.Show.Humanize || CLI.Serve.Humanize,
		Debug:    CLI.Debug,
	}
}

// Run executes the show command.
func (c *ShowCmd) Run(ctx *Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return show(sigCtx, ctx)
}

// Run executes the serve command.
func (c *ServeCmd) Run(ctx *Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(sigCtx, ctx)
}

// newSource builds the configured document source.
func newSource(cfg *config.Config) (loader.Source, error) {
	switch {
	case cfg.Source.URL != "":
		src, err := loader.NewHTTPSource(cfg.Source.URL, cfg.Source.Timeout)
		if err != nil {
			return nil, err
		}
		src.Headers = cfg.Source.Headers
		return src, nil
	case cfg.Source.File != "":
		return &loader.FileSource{Path: cfg.Source.File}, nil
	default:
		return nil, errors.NewConfigError("no source configured", errors.ErrNoSource)
	}
}

// useColor resolves the colour mode against the output.
func useColor(mode string, terminal bool) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return terminal && os.Getenv("NO_COLOR") == ""
	}
}

// show loads the document once and writes the page in the configured
// format. A load error is printed as the page's notice and then returned.
func show(ctx context.Context, app *Context) error {
	cfg := app.Config

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	lay, err := layout.ForName(cfg.Layout)
	if err != nil {
		return err
	}

	l := loader.New(src, loader.WithLogger(app.Logger))
	state := l.Load(ctx)
	if !state.Terminal() {
		return errors.NewInputError("load interrupted", ctx.Err())
	}

	page, err := layout.Build(lay, src.Describe(), state)
	if err != nil {
		return err
	}

	switch cfg.Output.Format {
	case config.FormatHTML:
		if err := generator.NewGenerator(cfg.DisplayLabel).WritePage(app.Stdout, page); err != nil {
			return err
		}
	case config.FormatJSON:
		if page.ShowsContent() {
			if _, err := fmt.Fprintln(app.Stdout, page.Raw); err != nil {
				return errors.NewOutputError("failed to write to stdout", err)
			}
		}
	default:
		f := formatter.NewFormatter(
			formatter.WithColors(useColor(cfg.Output.Color, app.IsTerminal)),
			formatter.WithLabels(cfg.DisplayLabel),
			formatter.WithRaw(cfg.Output.Raw),
		)
		if err := f.FormatPage(app.Stdout, page); err != nil {
			return err
		}
	}

	if state.Phase == loader.Error {
		return state.Err
	}
	return nil
}

// serve runs the page server until ctx is cancelled.
func serve(ctx context.Context, app *Context) error {
	cfg := app.Config

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	lay, err := layout.ForName(cfg.Layout)
	if err != nil {
		return err
	}

	srv := server.New(src, lay, generator.NewGenerator(cfg.DisplayLabel), app.Logger)
	fmt.Fprintf(os.Stderr, "Serving %s on %s\n", src.Describe(), cfg.Serve.Addr)
	return srv.ListenAndServe(ctx, cfg.Serve.Addr)
}
