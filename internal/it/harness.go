package it

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"lwwset/internal/node"
)

// Cluster is a set of independent lwwset processes started from a built
// binary.
type Cluster struct {
	nodes      []*Process
	logDir     string
	binaryPath string
	mu         sync.Mutex
}

// Process is a single running replica.
type Process struct {
	ID      string
	Addr    string
	Port    int
	cmd     *exec.Cmd
	logFile *os.File
	client  *node.Client
}

// NewCluster creates a harness that runs binaryPath and writes node logs
// under .local/it-logs.
func NewCluster(binaryPath string) (*Cluster, error) {
	logDir := filepath.Join(".local", "it-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &Cluster{
		logDir:     logDir,
		binaryPath: binaryPath,
	}, nil
}

// StartNode launches a replica listening on port with a Lamport clock and
// waits until it answers requests.
func (c *Cluster) StartNode(ctx context.Context, nodeID string, port int) (*Process, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := &Process{
		ID:   nodeID,
		Addr: fmt.Sprintf("127.0.0.1:%d", port),
		Port: port,
	}
	if err := c.launch(ctx, p); err != nil {
		return nil, err
	}
	c.nodes = append(c.nodes, p)
	return p, nil
}

func (c *Cluster) launch(ctx context.Context, p *Process) error {
	logPath := filepath.Join(c.logDir, fmt.Sprintf("%s.log", p.ID))
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.binaryPath,
		"--config", filepath.Join(c.logDir, "absent.yaml"),
		"serve",
		"--node-id", p.ID,
		"--listen", p.Addr,
		"--clock", "lamport",
	)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("failed to start node %s: %w", p.ID, err)
	}

	client, err := node.Dial(p.Addr)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		logFile.Close()
		return fmt.Errorf("failed to dial node %s: %w", p.ID, err)
	}

	p.cmd = cmd
	p.logFile = logFile
	p.client = client

	if err := waitForReady(ctx, p, 10*time.Second); err != nil {
		p.Stop()
		return fmt.Errorf("node %s failed to become ready: %w", p.ID, err)
	}
	return nil
}

// waitForReady polls Get until the node answers.
func waitForReady(ctx context.Context, p *Process, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if time.Now().After(deadline) {
				return fmt.Errorf("timeout waiting for node %s to be ready", p.ID)
			}

			readyCtx, cancel := context.WithTimeout(ctx, time.Second)
			_, err := p.client.Get(readyCtx)
			cancel()
			if err == nil {
				return nil
			}
		}
	}
}

// Stop stops every node in the cluster.
func (c *Cluster) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.nodes {
		p.Stop()
	}
	c.nodes = nil
}

// Stop kills the process and releases its client and log file.
func (p *Process) Stop() {
	if p.client != nil {
		p.client.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
		p.cmd.Wait()
	}
	if p.logFile != nil {
		p.logFile.Close()
	}
}

// Client returns the client connected to this node.
func (p *Process) Client() *node.Client {
	return p.client
}

// GetNode returns a node by ID, or nil.
func (c *Cluster) GetNode(nodeID string) *Process {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.nodes {
		if p.ID == nodeID {
			return p
		}
	}
	return nil
}

// RestartNode kills a node and starts it again on the same port. Replicas
// keep state in memory only, so the restarted node comes back empty.
func (c *Cluster) RestartNode(ctx context.Context, nodeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var p *Process
	for _, n := range c.nodes {
		if n.ID == nodeID {
			p = n
			break
		}
	}
	if p == nil {
		return fmt.Errorf("node %s not found", nodeID)
	}

	p.Stop()
	return c.launch(ctx, p)
}
