package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"lwwset/internal/logging"
)

// Globals are flags shared by every command.
type Globals struct {
	Config  string        `short:"c" help:"Configuration file path" default:"lwwset.yaml" type:"path"`
	Verbose bool          `short:"v" help:"Enable verbose logging"`
	Addr    string        `short:"a" help:"Node address for client commands" default:"127.0.0.1:50051" env:"LWWSET_ADDR"`
	Timeout time.Duration `help:"Per-request timeout for client commands" default:"5s"`

	// Stdout receives command output. Nil means os.Stdout.
	Stdout io.Writer `kong:"-"`
}

func (g *Globals) out() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI is the command tree.
type CLI struct {
	Globals

	Serve  ServeCmd  `cmd:"" help:"Run a replica node"`
	Add    AddCmd    `cmd:"" help:"Add an element"`
	Remove RemoveCmd `cmd:"" help:"Remove an element"`
	Exists ExistsCmd `cmd:"" help:"Report whether an element is in the set"`
	Get    GetCmd    `cmd:"" help:"List the elements in the set"`
	Dump   DumpCmd   `cmd:"" help:"Print the add and remove logs of a node"`
	Merge  MergeCmd  `cmd:"" help:"Read several nodes and print their merged membership"`
	Replay ReplayCmd `cmd:"" help:"Replay a timed operation queue against a node or a local set"`
}

// AfterApply installs a default logger before any command runs.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	_, err := logging.Init(logging.Config{Level: level})
	return err
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("lwwset"),
		kong.Description("Last-Writer-Wins element set replica and client."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
