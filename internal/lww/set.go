package lww

import (
	"cmp"
	"errors"
	"log/slog"
	"sync"

	"github.com/davecgh/go-spew/spew"

	"lwwset/internal/clock"
	"lwwset/internal/storage"
)

// ErrNoClock is returned by AddNow and RemoveNow on a set built without a
// timestamp source.
var ErrNoClock = errors.New("lww: no clock attached")

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Set is an LWW-Element-Set. It is safe for concurrent use.
type Set[E comparable, T cmp.Ordered] struct {
	mu       sync.RWMutex
	adds     storage.Log[E, T]
	removes  storage.Log[E, T]
	baseline T
	clock    clock.Source[T]
	logger   *slog.Logger
}

type options[T cmp.Ordered] struct {
	baseline    T
	hasBaseline bool
	clock       clock.Source[T]
	logger      *slog.Logger
}

// Option configures a Set.
type Option[T cmp.Ordered] func(*options[T])

// WithBaseline fixes the baseline timestamp.
func WithBaseline[T cmp.Ordered](t T) Option[T] {
	return func(o *options[T]) {
		o.baseline = t
		o.hasBaseline = true
	}
}

// WithClock attaches a timestamp source used by AddNow and RemoveNow. Unless
// WithBaseline is also given, the baseline is read from src once, at
// construction.
func WithClock[T cmp.Ordered](src clock.Source[T]) Option[T] {
	return func(o *options[T]) {
		o.clock = src
	}
}

// WithLogger sets the logger used by Probe.
func WithLogger[T cmp.Ordered](l *slog.Logger) Option[T] {
	return func(o *options[T]) {
		o.logger = l
	}
}

// New creates an empty set. Without options the baseline is the zero value
// of T.
func New[E comparable, T cmp.Ordered](opts ...Option[T]) *Set[E, T] {
	var o options[T]
	for _, opt := range opts {
		opt(&o)
	}

	baseline := o.baseline
	if !o.hasBaseline && o.clock != nil {
		baseline = o.clock.Now()
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Set[E, T]{
		adds:     storage.NewMapLog[E, T](),
		removes:  storage.NewMapLog[E, T](),
		baseline: baseline,
		clock:    o.clock,
		logger:   logger,
	}
}

// Baseline returns the timestamp assumed for elements absent from a log.
func (s *Set[E, T]) Baseline() T {
	return s.baseline
}

// Add records an add of e at t and returns t. The previous add timestamp is
// overwritten even if it is newer than t. An attached clock.Observer sees t,
// so later AddNow and RemoveNow calls are stamped after it.
func (s *Set[E, T]) Add(e E, t T) T {
	s.mu.Lock()
	s.adds.Put(e, t)
	s.mu.Unlock()

	s.observe(t)
	return t
}

// Remove records a remove of e at t and returns t. Removing an element that
// was never added leaves a tombstone.
func (s *Set[E, T]) Remove(e E, t T) T {
	s.mu.Lock()
	s.removes.Put(e, t)
	s.mu.Unlock()

	s.observe(t)
	return t
}

func (s *Set[E, T]) observe(t T) {
	if obs, ok := s.clock.(clock.Observer[T]); ok {
		obs.Observe(t)
	}
}

// AddNow adds e at the attached clock's current time.
func (s *Set[E, T]) AddNow(e E) (T, error) {
	if s.clock == nil {
		var zero T
		return zero, ErrNoClock
	}
	return s.Add(e, s.clock.Now()), nil
}

// RemoveNow removes e at the attached clock's current time.
func (s *Set[E, T]) RemoveNow(e E) (T, error) {
	if s.clock == nil {
		var zero T
		return zero, ErrNoClock
	}
	return s.Remove(e, s.clock.Now()), nil
}

// Exists reports whether e is in the set.
func (s *Set[E, T]) Exists(e E) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.existsLocked(e)
}

func (s *Set[E, T]) existsLocked(e E) bool {
	a, ok := s.adds.Get(e)
	if !ok {
		a = s.baseline
	}
	r, ok := s.removes.Get(e)
	if !ok {
		r = s.baseline
	}
	return a > r
}

// Get returns the members of the set in unspecified order.
func (s *Set[E, T]) Get() []E {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]E, 0, s.adds.Len())
	s.adds.Range(func(e E, _ T) bool {
		if s.existsLocked(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Sizes returns the number of entries in the add and remove logs.
func (s *Set[E, T]) Sizes() (adds, removes int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.adds.Len(), s.removes.Len()
}

// State returns a copy of both logs and the baseline.
func (s *Set[E, T]) State() State[E, T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State[E, T]{
		Baseline: s.baseline,
		Adds:     s.adds.Snapshot(),
		Removes:  s.removes.Snapshot(),
	}
}

// Merge folds other into s, keeping the newer timestamp per element in each
// log. The baseline of s never changes; a state with a different baseline is
// merged anyway and a warning is logged. An attached clock that implements
// clock.Observer is advanced past every merged timestamp.
func (s *Set[E, T]) Merge(other State[E, T]) {
	var (
		latest T
		seen   bool
	)
	track := func(t T) {
		if !seen || t > latest {
			latest, seen = t, true
		}
	}

	if other.Baseline != s.baseline {
		s.logger.Warn("merging state with a different baseline", "local", s.baseline, "remote", other.Baseline)
	}

	s.mu.Lock()
	for e, t := range other.Adds {
		s.adds.PutMax(e, t)
		track(t)
	}
	for e, t := range other.Removes {
		s.removes.PutMax(e, t)
		track(t)
	}
	s.mu.Unlock()

	if seen {
		s.observe(latest)
	}
}

// Probe logs the membership of e at debug level and returns it.
func (s *Set[E, T]) Probe(e E) bool {
	ok := s.Exists(e)
	s.logger.Debug("probe", "element", e, "exists", ok)
	return ok
}

// Dump renders the full internal state for debugging.
func (s *Set[E, T]) Dump() string {
	return s.State().Dump()
}
