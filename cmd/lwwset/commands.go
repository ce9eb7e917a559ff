package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"lwwset/internal/clock"
	"lwwset/internal/config"
	"lwwset/internal/logging"
	"lwwset/internal/lww"
	"lwwset/internal/node"
	"lwwset/internal/replay"
	"lwwset/internal/tracing"
)

// ServeCmd runs a node.
type ServeCmd struct {
	NodeID  string `help:"Node identifier (overrides config)"`
	Listen  string `short:"l" help:"gRPC listen address (overrides config)"`
	Metrics string `help:"Prometheus listen address (overrides config)"`
	Clock   string `help:"Timestamp source: wall or lamport (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	if c.NodeID != "" {
		cfg.NodeID = c.NodeID
	}
	if c.Listen != "" {
		cfg.ListenAddr = c.Listen
	}
	if c.Metrics != "" {
		cfg.MetricsAddr = c.Metrics
	}
	if c.Clock != "" {
		cfg.Clock = c.Clock
	}
	if g.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	closeLog, err := logging.Init(logging.Config{Level: level, FilePath: cfg.Log.File})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Trace {
		shutdown, err := tracing.Init(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("tracing shutdown failed", "error", err)
			}
		}()
	}

	n, err := node.NewNode(cfg, slog.Default())
	if err != nil {
		return err
	}
	return n.Run(ctx)
}

func withClient(g *Globals, fn func(ctx context.Context, c *node.Client) error) error {
	client, err := node.Dial(g.Addr)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()
	return fn(ctx, client)
}

// AddCmd adds an element.
type AddCmd struct {
	Element   string `arg:"" help:"Element to add"`
	Timestamp int64  `name:"ts" help:"Explicit timestamp; 0 lets the node stamp it"`
}

func (c *AddCmd) Run(g *Globals) error {
	return withClient(g, func(ctx context.Context, client *node.Client) error {
		ts, err := client.Add(ctx, c.Element, c.Timestamp)
		if err != nil {
			return err
		}
		fmt.Fprintln(g.out(), ts)
		return nil
	})
}

// RemoveCmd removes an element.
type RemoveCmd struct {
	Element   string `arg:"" help:"Element to remove"`
	Timestamp int64  `name:"ts" help:"Explicit timestamp; 0 lets the node stamp it"`
}

func (c *RemoveCmd) Run(g *Globals) error {
	return withClient(g, func(ctx context.Context, client *node.Client) error {
		ts, err := client.Remove(ctx, c.Element, c.Timestamp)
		if err != nil {
			return err
		}
		fmt.Fprintln(g.out(), ts)
		return nil
	})
}

// ExistsCmd checks membership.
type ExistsCmd struct {
	Element string `arg:"" help:"Element to look up"`
}

func (c *ExistsCmd) Run(g *Globals) error {
	return withClient(g, func(ctx context.Context, client *node.Client) error {
		ok, err := client.Exists(ctx, c.Element)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.out(), "%s is existing: %t\n", c.Element, ok)
		return nil
	})
}

// GetCmd lists members.
type GetCmd struct{}

func (c *GetCmd) Run(g *Globals) error {
	return withClient(g, func(ctx context.Context, client *node.Client) error {
		elements, err := client.Get(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.out(), "[%s]\n", strings.Join(elements, ", "))
		return nil
	})
}

// DumpCmd prints a node's logs.
type DumpCmd struct{}

func (c *DumpCmd) Run(g *Globals) error {
	return withClient(g, func(ctx context.Context, client *node.Client) error {
		nodeID, st, err := client.State(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.out(), "node: %s\n", nodeID)
		fmt.Fprint(g.out(), st.Dump())
		return nil
	})
}

// MergeCmd merges snapshots from several nodes on the client side.
type MergeCmd struct {
	Nodes    []string `arg:"" help:"Node addresses"`
	Required int      `short:"r" help:"Nodes that must answer; 0 means a majority" default:"0"`
	State    bool     `name:"state" help:"Print the merged logs instead of the members"`
}

func (c *MergeCmd) Run(g *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	st, err := node.Gather(ctx, c.Nodes, c.Required, 0, nil)
	if err != nil {
		return err
	}
	if c.State {
		fmt.Fprint(g.out(), st.Dump())
		return nil
	}
	elements := st.Elements()
	slices.Sort(elements)
	fmt.Fprintf(g.out(), "[%s]\n", strings.Join(elements, ", "))
	return nil
}

// ReplayCmd replays an operation queue.
type ReplayCmd struct {
	Script   string        `short:"s" help:"YAML script; defaults to the built-in demonstration queue" type:"existingfile"`
	Local    bool          `help:"Replay against an in-process set instead of a node"`
	Interval time.Duration `help:"Delay between operations (overrides the script)"`
}

func (c *ReplayCmd) Run(g *Globals) error {
	script := replay.DefaultScript()
	if c.Script != "" {
		var err error
		if script, err = replay.LoadScript(c.Script); err != nil {
			return err
		}
	}

	if c.Interval > 0 {
		script.Interval = c.Interval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report := func(r replay.Result) {
		if r.Op.Kind == replay.KindGet {
			fmt.Fprintf(g.out(), "[%s]\n", strings.Join(r.Elements, ", "))
			return
		}
		fmt.Fprintf(g.out(), "%-6s %-10s ts=%d\n", r.Op.Kind, r.Op.Element, r.Timestamp)
	}

	if c.Local {
		src, err := clock.NewSource(clock.KindWall)
		if err != nil {
			return err
		}
		set := lww.New[string, int64](lww.WithClock(src), lww.WithLogger[int64](slog.Default()))
		err = replay.NewRunner(replay.Local{Set: set}, script, slog.Default(), report).Run(ctx)
		slog.Debug("final state", "dump", set.Dump())
		return err
	}

	client, err := node.Dial(g.Addr)
	if err != nil {
		return err
	}
	defer client.Close()
	return replay.NewRunner(client, script, slog.Default(), report).Run(ctx)
}
