package it

import (
	"context"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lwwset/internal/lww"
)

const binaryPath = "./lwwset"

func startCluster(t *testing.T, ids ...string) (*Cluster, context.Context) {
	t.Helper()
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skip("Binary not found, skipping integration test. Build with: go build -o internal/it/lwwset ./cmd/lwwset")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	cluster, err := NewCluster(binaryPath)
	require.NoError(t, err)
	t.Cleanup(cluster.Stop)

	for i, id := range ids {
		_, err := cluster.StartNode(ctx, id, 61051+i)
		require.NoError(t, err, "failed to start %s", id)
	}
	return cluster, ctx
}

func sorted(s []string) []string {
	slices.Sort(s)
	return s
}

func TestSmoke_AddRemoveGet(t *testing.T) {
	cluster, ctx := startCluster(t, "n1")
	client := cluster.GetNode("n1").Client()

	// Lamport nodes start with baseline 1.
	for i, e := range []string{"a", "b", "c"} {
		_, err := client.Add(ctx, e, int64(i+11))
		require.NoError(t, err)
	}
	_, err := client.Remove(ctx, "d", 14)
	require.NoError(t, err)
	_, err = client.Remove(ctx, "a", 15)
	require.NoError(t, err)
	_, err = client.Add(ctx, "d", 16)
	require.NoError(t, err)

	got, err := client.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, got)

	ok, err := client.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSmoke_NodeClockStamps(t *testing.T) {
	cluster, ctx := startCluster(t, "n1")
	client := cluster.GetNode("n1").Client()

	t1, err := client.Add(ctx, "x", 0)
	require.NoError(t, err)
	t2, err := client.Remove(ctx, "x", 0)
	require.NoError(t, err)
	assert.Greater(t, t2, t1)

	ok, err := client.Exists(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSmoke_RestartLosesState(t *testing.T) {
	cluster, ctx := startCluster(t, "n1")
	client := cluster.GetNode("n1").Client()

	_, err := client.Add(ctx, "a", 10)
	require.NoError(t, err)

	require.NoError(t, cluster.RestartNode(ctx, "n1"))
	client = cluster.GetNode("n1").Client()

	got, err := client.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSmoke_SnapshotsConverge(t *testing.T) {
	cluster, ctx := startCluster(t, "n1", "n2")
	c1 := cluster.GetNode("n1").Client()
	c2 := cluster.GetNode("n2").Client()

	_, err := c1.Add(ctx, "a", 11)
	require.NoError(t, err)
	_, err = c2.Remove(ctx, "a", 12)
	require.NoError(t, err)
	_, err = c2.Add(ctx, "b", 13)
	require.NoError(t, err)

	id1, s1, err := c1.State(ctx)
	require.NoError(t, err)
	id2, s2, err := c2.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "n1", id1)
	assert.Equal(t, "n2", id2)

	m12 := lww.MergeStates(s1, s2)
	m21 := lww.MergeStates(s2, s1)
	assert.Equal(t, []string{"b"}, sorted(m12.Elements()))
	assert.Equal(t, sorted(m12.Elements()), sorted(m21.Elements()))
}
