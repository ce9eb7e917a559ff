package storage

import "cmp"

// Log maps elements to the timestamp of their most recent operation.
type Log[E comparable, T cmp.Ordered] interface {
	// Get returns the timestamp recorded for e, if any.
	Get(e E) (T, bool)
	// Put records t for e, overwriting any previous value even if older.
	Put(e E, t T)
	// PutMax records t for e only if e is absent or t is newer.
	// Returns true if the log changed.
	PutMax(e E, t T) bool
	// Len returns the number of recorded elements.
	Len() int
	// Range calls fn for every entry until fn returns false.
	// Iteration order is unspecified.
	Range(fn func(e E, t T) bool)
	// Snapshot returns a copy of all entries.
	Snapshot() map[E]T
}

// MapLog is a map-backed Log. It is not safe for concurrent use; the
// owning set serialises access.
type MapLog[E comparable, T cmp.Ordered] struct {
	data map[E]T
}

// NewMapLog creates an empty MapLog.
func NewMapLog[E comparable, T cmp.Ordered]() *MapLog[E, T] {
	return &MapLog[E, T]{data: make(map[E]T)}
}

// NewMapLogFrom creates a MapLog holding a copy of entries.
func NewMapLogFrom[E comparable, T cmp.Ordered](entries map[E]T) *MapLog[E, T] {
	l := &MapLog[E, T]{data: make(map[E]T, len(entries))}
	for e, t := range entries {
		l.data[e] = t
	}
	return l
}

// Get returns the timestamp recorded for e.
func (l *MapLog[E, T]) Get(e E) (T, bool) {
	t, ok := l.data[e]
	return t, ok
}

// Put records t for e.
func (l *MapLog[E, T]) Put(e E, t T) {
	l.data[e] = t
}

// PutMax records t for e if it is newer than the existing entry.
func (l *MapLog[E, T]) PutMax(e E, t T) bool {
	if existing, ok := l.data[e]; ok && existing >= t {
		return false
	}
	l.data[e] = t
	return true
}

// Len returns the number of entries.
func (l *MapLog[E, T]) Len() int {
	return len(l.data)
}

// Range iterates over all entries.
func (l *MapLog[E, T]) Range(fn func(e E, t T) bool) {
	for e, t := range l.data {
		if !fn(e, t) {
			return
		}
	}
}

// Snapshot returns a copy of all entries.
func (l *MapLog[E, T]) Snapshot() map[E]T {
	out := make(map[E]T, len(l.data))
	for e, t := range l.data {
		out[e] = t
	}
	return out
}
