package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/kavach"
	"github.com/fwojciec/kavach/config"
	"github.com/fwojciec/kavach/console"
	"github.com/fwojciec/kavach/goldmark"
	kavachhttp "github.com/fwojciec/kavach/http"
	kavachprom "github.com/fwojciec/kavach/prometheus"
	kavachslog "github.com/fwojciec/kavach/slog"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file if it exists
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// Commands report application errors themselves.
		if kavach.ErrorCode(err) == kavach.EINTERNAL {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Input for the interactive console. Set before calling Run().
	Stdin io.Reader

	// Configuration resolved from defaults, file and flags. Set by Run().
	Config *config.Config

	// Analyzer overrides the HTTP analyzer, for end-to-end testing.
	Analyzer kavach.Analyzer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("kavach"),
		kong.Description("Explainable Legal AI for Indian Judgments"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'kavach --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := kongCtx.Command()

	// Resolve configuration once; it is not modified afterwards.
	if m.Config, err = loadConfig(cli); err != nil {
		fmt.Fprintln(stderr, "Hint: Check the config file, --endpoint and --timeout values")
		return err
	}
	deps.Config = m.Config

	logger, err := newLogger(m.Config, cli.Verbose, stderr, cmd == "serve")
	if err != nil {
		return err
	}
	deps.Logger = logger

	// Wire the analyzer chain
	var analyzer kavach.Analyzer = m.Analyzer
	if analyzer == nil {
		analyzer = kavachhttp.NewAnalyzer(m.Config.Backend.Endpoint,
			kavachhttp.WithTimeout(m.Config.Backend.Timeout))
	}
	analyzer = kavachslog.NewLoggingAnalyzer(analyzer, logger)

	// Wire command-specific dependencies based on command
	if cmd == "serve" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		instrumented, err := kavachprom.NewAnalyzer(analyzer, registry)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		analyzer = instrumented

		server := kavachhttp.NewServer()
		server.Addr = m.Config.Server.Addr
		if cli.Serve.Addr != "" {
			server.Addr = cli.Serve.Addr
		}
		server.Renderer = goldmark.NewRenderer()
		server.Metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		server.Logger = logger
		deps.Server = server
	}

	deps.Console = console.NewConsole(analyzer)
	if deps.Server != nil {
		deps.Server.Console = deps.Console
	}

	return kongCtx.Run(deps)
}

// loadConfig resolves configuration with increasing precedence: defaults,
// config file, then flags and environment variables.
func loadConfig(cli *CLI) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cli.Config != "" {
		var err error
		if cfg, err = config.LoadFromFile(cli.Config); err != nil {
			return nil, err
		}
	}

	if cli.Endpoint != "" {
		cfg.Backend.Endpoint = cli.Endpoint
	}
	if cli.Timeout != 0 {
		cfg.Backend.Timeout = cli.Timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. Terminal commands only log with
// --verbose so that log lines do not interleave with rendered answers.
func newLogger(cfg *config.Config, verbose bool, w io.Writer, server bool) (*slog.Logger, error) {
	if !server && !verbose {
		return slog.New(slog.DiscardHandler), nil
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
