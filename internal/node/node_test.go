package node

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	lwwpb "lwwset/internal/api/lwwpb"
	"lwwset/internal/config"
)

func startNode(t *testing.T, mutate func(cfg *config.Config)) (*Node, *Client) {
	t.Helper()

	cfg := config.Default()
	cfg.NodeID = "n1"
	cfg.Clock = "lamport"
	zero := int64(0)
	cfg.Epoch = &zero
	if mutate != nil {
		mutate(cfg)
	}

	n, err := NewNode(cfg, nil)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() {
		_ = n.Serve(lis)
	}()
	t.Cleanup(n.Stop)

	client, err := Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return n, client
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNode_OperationQueueScenario(t *testing.T) {
	_, client := startNode(t, nil)
	ctx := testContext(t)

	steps := []struct {
		add     bool
		element string
		ts      int64
	}{
		{true, "a", 1},
		{true, "b", 2},
		{true, "c", 3},
		{false, "d", 4},
		{false, "a", 5},
		{true, "d", 6},
	}
	for _, s := range steps {
		var (
			ts  int64
			err error
		)
		if s.add {
			ts, err = client.Add(ctx, s.element, s.ts)
		} else {
			ts, err = client.Remove(ctx, s.element, s.ts)
		}
		require.NoError(t, err)
		assert.Equal(t, s.ts, ts)
	}

	got, err := client.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, got)

	exists, err := client.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNode_ZeroTimestampUsesNodeClock(t *testing.T) {
	n, client := startNode(t, func(cfg *config.Config) { cfg.Epoch = nil })
	ctx := testContext(t)

	assert.Equal(t, int64(1), n.Set().Baseline())

	ts, err := client.Add(ctx, "x", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ts)

	ts, err = client.Remove(ctx, "x", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ts)

	exists, err := client.Exists(ctx, "x")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNode_NodeClockFollowsExplicitTimestamps(t *testing.T) {
	_, client := startNode(t, nil)
	ctx := testContext(t)

	_, err := client.Add(ctx, "x", 100)
	require.NoError(t, err)

	ts, err := client.Remove(ctx, "x", 0)
	require.NoError(t, err)
	assert.Greater(t, ts, int64(100))

	exists, err := client.Exists(ctx, "x")
	require.NoError(t, err)
	assert.False(t, exists)
}

// protoNamedCodec encodes with the service codec but announces itself as
// the stock "proto" codec, like a generated client would.
type protoNamedCodec struct{ lwwpb.Codec }

func (protoNamedCodec) Name() string { return "proto" }

func TestNode_AnswersDefaultProtoContentType(t *testing.T) {
	_, client := startNode(t, nil)
	ctx := testContext(t)

	resp := &lwwpb.MutationResponse{}
	err := client.conn.Invoke(ctx, lwwpb.LWWSet_Add_FullMethodName,
		&lwwpb.AddRequest{Element: "p", Timestamp: 9}, resp,
		grpc.ForceCodec(protoNamedCodec{}),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.Timestamp)

	exists, err := client.Exists(ctx, "p")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNode_RemoveWinsTie(t *testing.T) {
	_, client := startNode(t, nil)
	ctx := testContext(t)

	_, err := client.Remove(ctx, "e", 7)
	require.NoError(t, err)
	_, err = client.Add(ctx, "e", 7)
	require.NoError(t, err)

	got, err := client.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNode_EmptyElementRejected(t *testing.T) {
	_, client := startNode(t, nil)
	ctx := testContext(t)

	_, err := client.Add(ctx, "", 1)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Remove(ctx, "", 1)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Exists(ctx, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestNode_State(t *testing.T) {
	_, client := startNode(t, nil)
	ctx := testContext(t)

	_, err := client.Add(ctx, "b", 2)
	require.NoError(t, err)
	_, err = client.Add(ctx, "a", 1)
	require.NoError(t, err)
	_, err = client.Remove(ctx, "z", 3)
	require.NoError(t, err)

	nodeID, st, err := client.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "n1", nodeID)
	assert.Equal(t, int64(0), st.Baseline)
	assert.Equal(t, map[string]int64{"a": 1, "b": 2}, st.Adds)
	assert.Equal(t, map[string]int64{"z": 3}, st.Removes)
	assert.ElementsMatch(t, []string{"a", "b"}, st.Elements())
}

func TestNode_Metrics(t *testing.T) {
	n, client := startNode(t, nil)
	ctx := testContext(t)

	for i, e := range []string{"a", "b", "c"} {
		_, err := client.Add(ctx, e, int64(i+1))
		require.NoError(t, err)
	}
	_, err := client.Remove(ctx, "a", 10)
	require.NoError(t, err)
	_, err = client.Add(ctx, "", 1)
	require.Error(t, err)

	m := n.Metrics()
	assert.Equal(t, 3.0, testutil.ToFloat64(m.operations.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("remove")))

	count, err := testutil.GatherAndCount(m.Registry(), "lww_members", "lww_add_log_entries", "lww_remove_log_entries")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, f := range families {
		if len(f.GetMetric()) == 1 && f.GetMetric()[0].GetGauge() != nil {
			values[f.GetName()] = f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, 2.0, values["lww_members"])
	assert.Equal(t, 3.0, values["lww_add_log_entries"])
	assert.Equal(t, 1.0, values["lww_remove_log_entries"])
}
