package node

import (
	"context"
	"fmt"
	"time"

	"lwwset/internal/lww"
	"lwwset/internal/quorum"
)

// DialFunc opens a client for an address. Dial with no options is the usual
// choice.
type DialFunc func(addr string) (*Client, error)

// Gather reads the state of each address in parallel and merges every answer
// it got. At least required nodes must respond (a majority when required is
// zero). The merged baseline is the lowest one reported, so the result does
// not depend on which node answered first.
func Gather(ctx context.Context, addrs []string, required int, perNode time.Duration, dial DialFunc) (lww.State[string, int64], error) {
	if dial == nil {
		dial = func(addr string) (*Client, error) { return Dial(addr) }
	}

	result, err := quorum.DoRead(ctx, addrs, required, perNode, func(ctx context.Context, addr string) (lww.State[string, int64], error) {
		client, err := dial(addr)
		if err != nil {
			return lww.State[string, int64]{}, err
		}
		defer client.Close()

		_, st, err := client.State(ctx)
		return st, err
	})
	if err != nil {
		return lww.State[string, int64]{}, fmt.Errorf("gather state: %w", err)
	}

	merged := result.Responses[0].Value
	for _, r := range result.Responses[1:] {
		merged = lww.MergeStates(merged, r.Value)
	}
	return merged, nil
}
