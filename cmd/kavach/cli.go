package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/kavach/config"
	"github.com/fwojciec/kavach/console"
	kavachhttp "github.com/fwojciec/kavach/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *slog.Logger
	Console *console.Console
	Server  *kavachhttp.Server
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string        `short:"C" type:"path" env:"KAVACH_CONFIG" help:"Path to a YAML config file"`
	Endpoint string        `env:"KAVACH_BACKEND_URL" help:"Analysis backend URL"`
	Timeout  time.Duration `help:"Backend request timeout (default 30s)"`
	Verbose  bool          `short:"v" help:"Enable debug logging"`

	Ask     AskCmd     `cmd:"" help:"Ask a legal question"`
	Console ConsoleCmd `cmd:"" help:"Start an interactive query console"`
	Cases   CasesCmd   `cmd:"" help:"List case files in the knowledge base"`
	Serve   ServeCmd   `cmd:"" help:"Serve the query console web page"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" optional:"" help:"Question to ask"`
	Case     string `short:"c" name:"case" help:"Restrict analysis to one case file (see 'kavach cases')"`
}

// ConsoleCmd is the "console" subcommand.
type ConsoleCmd struct{}

// CasesCmd is the "cases" subcommand.
type CasesCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address (default :8501)"`
}
