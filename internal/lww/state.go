package lww

import "cmp"

// State is a point-in-time copy of a set's logs.
type State[E comparable, T cmp.Ordered] struct {
	Baseline T
	Adds     map[E]T
	Removes  map[E]T
}

// Exists reports whether e is a member in this state.
func (st State[E, T]) Exists(e E) bool {
	a, ok := st.Adds[e]
	if !ok {
		a = st.Baseline
	}
	r, ok := st.Removes[e]
	if !ok {
		r = st.Baseline
	}
	return a > r
}

// Elements returns the members of this state in unspecified order.
func (st State[E, T]) Elements() []E {
	out := make([]E, 0, len(st.Adds))
	for e := range st.Adds {
		if st.Exists(e) {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy.
func (st State[E, T]) Clone() State[E, T] {
	return State[E, T]{
		Baseline: st.Baseline,
		Adds:     copyLog(st.Adds),
		Removes:  copyLog(st.Removes),
	}
}

// Dump renders the state with sorted keys.
func (st State[E, T]) Dump() string {
	return dumper.Sdump(st)
}

// MergeStates returns the pointwise-maximum union of a and b with the lower
// of the two baselines, so the argument order never matters.
func MergeStates[E comparable, T cmp.Ordered](a, b State[E, T]) State[E, T] {
	out := a.Clone()
	out.Baseline = min(a.Baseline, b.Baseline)
	mergeLog(out.Adds, b.Adds)
	mergeLog(out.Removes, b.Removes)
	return out
}

func mergeLog[E comparable, T cmp.Ordered](dst, src map[E]T) {
	for e, t := range src {
		if cur, ok := dst[e]; !ok || t > cur {
			dst[e] = t
		}
	}
}

func copyLog[E comparable, T cmp.Ordered](m map[E]T) map[E]T {
	out := make(map[E]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
