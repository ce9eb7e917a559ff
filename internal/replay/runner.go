package replay

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/go-co-op/gocron/v2"

	"lwwset/internal/lww"
)

// Target receives replayed operations.
type Target interface {
	Add(ctx context.Context, e string, ts int64) (int64, error)
	Remove(ctx context.Context, e string, ts int64) (int64, error)
	Get(ctx context.Context) ([]string, error)
}

// Local adapts an in-process set to Target. Zero timestamps are drawn from
// the set's clock.
type Local struct {
	Set *lww.Set[string, int64]
}

func (l Local) Add(_ context.Context, e string, ts int64) (int64, error) {
	if ts == 0 {
		return l.Set.AddNow(e)
	}
	return l.Set.Add(e, ts), nil
}

func (l Local) Remove(_ context.Context, e string, ts int64) (int64, error) {
	if ts == 0 {
		return l.Set.RemoveNow(e)
	}
	return l.Set.Remove(e, ts), nil
}

func (l Local) Get(context.Context) ([]string, error) {
	out := l.Set.Get()
	slices.Sort(out)
	return out, nil
}

// Result describes one applied operation.
type Result struct {
	Index     int
	Op        Op
	Timestamp int64
	// Elements is set for get operations.
	Elements []string
}

// Runner replays a script against a target.
type Runner struct {
	target   Target
	script   Script
	logger   *slog.Logger
	onResult func(Result)
}

// NewRunner creates a runner. onResult, if non-nil, is called after every
// operation, in order.
func NewRunner(target Target, script Script, logger *slog.Logger, onResult func(Result)) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if script.Interval == 0 {
		script.Interval = DefaultInterval
	}
	return &Runner{
		target:   target,
		script:   script,
		logger:   logger,
		onResult: onResult,
	}
}

// Run schedules one operation per interval and blocks until the queue is
// drained, an operation fails, or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.script.Validate(); err != nil {
		return err
	}
	ops := r.script.Ops
	if len(ops) == 0 {
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			r.logger.Warn("scheduler shutdown failed", "error", err)
		}
	}()

	var (
		mu   sync.Mutex
		next int
		done = make(chan error, 1)
	)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	tick := func() {
		mu.Lock()
		defer mu.Unlock()

		if next >= len(ops) {
			return
		}
		i, op := next, ops[next]
		next++

		res, err := r.apply(ctx, i, op)
		if err != nil {
			next = len(ops)
			finish(fmt.Errorf("op %d (%s): %w", i, op, err))
			return
		}
		if r.onResult != nil {
			r.onResult(res)
		}
		if next == len(ops) {
			finish(nil)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.script.Interval),
		gocron.NewTask(tick),
		gocron.WithName("lww-replay"),
		gocron.WithLimitedRuns(uint(len(ops))),
		gocron.WithSingletonMode(gocron.LimitModeWait),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule replay: %w", err)
	}

	r.logger.Info("replay started", "ops", len(ops), "interval", r.script.Interval)
	scheduler.Start()

	select {
	case err := <-done:
		if err == nil {
			r.logger.Info("replay finished", "ops", len(ops))
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) apply(ctx context.Context, i int, op Op) (Result, error) {
	res := Result{Index: i, Op: op}

	var err error
	switch op.Kind {
	case KindAdd:
		res.Timestamp, err = r.target.Add(ctx, op.Element, op.Timestamp)
	case KindRemove:
		res.Timestamp, err = r.target.Remove(ctx, op.Element, op.Timestamp)
	case KindGet:
		res.Elements, err = r.target.Get(ctx)
	}
	if err != nil {
		return res, err
	}

	r.logger.Debug("replayed", "index", i, "op", op.Kind, "element", op.Element, "ts", res.Timestamp)
	return res, nil
}
