package node

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	lwwpb "lwwset/internal/api/lwwpb"
	"lwwset/internal/lww"
)

// Client talks to a single node.
type Client struct {
	conn *grpc.ClientConn
	rpc  lwwpb.LWWSetClient
}

// Dial creates a client for addr. Extra options are applied after the
// default insecure transport credentials.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return &Client{conn: conn, rpc: lwwpb.NewLWWSetClient(conn)}, nil
}

// Add adds e at ts, or at the node's clock when ts is zero, and returns the
// recorded timestamp.
func (c *Client) Add(ctx context.Context, e string, ts int64) (int64, error) {
	resp, err := c.rpc.Add(ctx, &lwwpb.AddRequest{Element: e, Timestamp: ts, RequestId: uuid.NewString()})
	if err != nil {
		return 0, fmt.Errorf("add %q: %w", e, err)
	}
	return resp.Timestamp, nil
}

// Remove removes e at ts, or at the node's clock when ts is zero.
func (c *Client) Remove(ctx context.Context, e string, ts int64) (int64, error) {
	resp, err := c.rpc.Remove(ctx, &lwwpb.RemoveRequest{Element: e, Timestamp: ts, RequestId: uuid.NewString()})
	if err != nil {
		return 0, fmt.Errorf("remove %q: %w", e, err)
	}
	return resp.Timestamp, nil
}

// Exists reports whether e is a member.
func (c *Client) Exists(ctx context.Context, e string) (bool, error) {
	resp, err := c.rpc.Exists(ctx, &lwwpb.ExistsRequest{Element: e})
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", e, err)
	}
	return resp.Exists, nil
}

// Get lists the members.
func (c *Client) Get(ctx context.Context) ([]string, error) {
	resp, err := c.rpc.Get(ctx, &lwwpb.GetRequest{})
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	if resp.Elements == nil {
		return []string{}, nil
	}
	return resp.Elements, nil
}

// State fetches the node id and a copy of its logs.
func (c *Client) State(ctx context.Context) (string, lww.State[string, int64], error) {
	resp, err := c.rpc.State(ctx, &lwwpb.StateRequest{})
	if err != nil {
		return "", lww.State[string, int64]{}, fmt.Errorf("state: %w", err)
	}
	return resp.NodeId, protoToState(resp), nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
