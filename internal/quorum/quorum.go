package quorum

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultPerReplicaTimeout is the default timeout for each replica call.
	DefaultPerReplicaTimeout = 2 * time.Second
)

// ErrQuorumNotMet is returned when fewer than the required number of
// replicas answered.
var ErrQuorumNotMet = errors.New("quorum not met")

// Response is one replica's answer.
type Response[R any] struct {
	Replica string
	Value   R
}

// ReadResult summarizes a fan-out read.
type ReadResult[R any] struct {
	Responses []Response[R]
	Required  int
	Replicas  int
	Errors    []error
}

// ReplicaReadFunc reads from a single replica.
type ReplicaReadFunc[R any] func(ctx context.Context, replica string) (R, error)

// DoRead calls readFn on every replica in parallel, each bounded by
// perReplica (DefaultPerReplicaTimeout when zero). A required count of zero
// or less means a majority. Responses keep the order of replicas.
func DoRead[R any](ctx context.Context, replicas []string, required int, perReplica time.Duration, readFn ReplicaReadFunc[R]) (ReadResult[R], error) {
	if len(replicas) == 0 {
		return ReadResult[R]{}, errors.New("no replicas provided")
	}
	if required <= 0 {
		required = len(replicas)/2 + 1
	}
	if required > len(replicas) {
		return ReadResult[R]{}, fmt.Errorf("required R=%d exceeds replica count=%d", required, len(replicas))
	}
	if perReplica <= 0 {
		perReplica = DefaultPerReplicaTimeout
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		values = make([]*Response[R], len(replicas))
		errs   []error
	)

	replicaCtx, cancel := context.WithTimeout(ctx, perReplica)
	defer cancel()

	for i, replica := range replicas {
		wg.Add(1)
		go func(i int, rid string) {
			defer wg.Done()

			v, err := readFn(replicaCtx, rid)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("replica %s: %w", rid, err))
				return
			}
			values[i] = &Response[R]{Replica: rid, Value: v}
		}(i, replica)
	}
	wg.Wait()

	result := ReadResult[R]{
		Required: required,
		Replicas: len(replicas),
		Errors:   errs,
	}
	for _, v := range values {
		if v != nil {
			result.Responses = append(result.Responses, *v)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("context cancelled: %w", err)
	}
	if len(result.Responses) < required {
		err := fmt.Errorf("%w: responses=%d required=%d replicas=%d",
			ErrQuorumNotMet, len(result.Responses), required, len(replicas))
		return result, errors.Join(append([]error{err}, errs...)...)
	}
	return result, nil
}
