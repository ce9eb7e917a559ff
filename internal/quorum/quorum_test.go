package quorum

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoRead_Success(t *testing.T) {
	replicas := []string{"r1", "r2", "r3"}

	readFn := func(ctx context.Context, replica string) (string, error) {
		return "v-" + replica, nil
	}

	result, err := DoRead(context.Background(), replicas, 2, 0, readFn)
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if len(result.Responses) != 3 {
		t.Fatalf("Expected 3 responses, got %d", len(result.Responses))
	}
	for i, r := range result.Responses {
		if r.Replica != replicas[i] || r.Value != "v-"+replicas[i] {
			t.Errorf("Response %d = %+v, want replica order preserved", i, r)
		}
	}
}

func TestDoRead_DefaultMajority(t *testing.T) {
	replicas := []string{"r1", "r2", "r3", "r4", "r5"}

	readFn := func(ctx context.Context, replica string) (int, error) {
		if replica == "r1" || replica == "r2" {
			return 0, errors.New("down")
		}
		return 1, nil
	}

	result, err := DoRead(context.Background(), replicas, 0, 0, readFn)
	if err != nil {
		t.Fatalf("Expected majority success, got: %v", err)
	}
	if result.Required != 3 {
		t.Errorf("Expected required=3, got %d", result.Required)
	}
	if len(result.Errors) != 2 {
		t.Errorf("Expected 2 replica errors, got %d", len(result.Errors))
	}
}

func TestDoRead_QuorumNotMet(t *testing.T) {
	replicas := []string{"r1", "r2", "r3"}

	readFn := func(ctx context.Context, replica string) (int, error) {
		if replica == "r1" {
			return 1, nil
		}
		return 0, errors.New("replica failed")
	}

	result, err := DoRead(context.Background(), replicas, 2, 0, readFn)
	if !errors.Is(err, ErrQuorumNotMet) {
		t.Fatalf("Expected ErrQuorumNotMet, got %v", err)
	}
	if len(result.Responses) != 1 {
		t.Errorf("Expected 1 response, got %d", len(result.Responses))
	}
}

func TestDoRead_PerReplicaTimeout(t *testing.T) {
	replicas := []string{"fast", "slow"}

	readFn := func(ctx context.Context, replica string) (int, error) {
		if replica == "slow" {
			<-ctx.Done()
			return 0, ctx.Err()
		}
		return 1, nil
	}

	start := time.Now()
	result, err := DoRead(context.Background(), replicas, 1, 20*time.Millisecond, readFn)
	if err != nil {
		t.Fatalf("Expected success with one response, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("Slow replica was not bounded by the per-replica timeout")
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], context.DeadlineExceeded) {
		t.Errorf("Expected a deadline error for the slow replica, got %v", result.Errors)
	}
}

func TestDoRead_InvalidArguments(t *testing.T) {
	readFn := func(ctx context.Context, replica string) (int, error) { return 0, nil }

	if _, err := DoRead(context.Background(), nil, 1, 0, readFn); err == nil {
		t.Error("Expected error for empty replica list")
	}
	if _, err := DoRead(context.Background(), []string{"r1"}, 2, 0, readFn); err == nil {
		t.Error("Expected error when required exceeds replicas")
	}
}

func TestDoRead_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	readFn := func(ctx context.Context, replica string) (int, error) {
		return 0, ctx.Err()
	}

	_, err := DoRead(ctx, []string{"r1", "r2"}, 1, 0, readFn)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
