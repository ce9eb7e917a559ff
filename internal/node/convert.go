package node

import (
	"cmp"
	"slices"

	lwwpb "lwwset/internal/api/lwwpb"
	"lwwset/internal/lww"
)

// stateToProto converts a set state to its wire form with entries sorted by
// element.
func stateToProto(st lww.State[string, int64]) *lwwpb.StateResponse {
	return &lwwpb.StateResponse{
		Baseline: st.Baseline,
		Adds:     logToProto(st.Adds),
		Removes:  logToProto(st.Removes),
	}
}

func logToProto(m map[string]int64) []*lwwpb.Entry {
	entries := make([]*lwwpb.Entry, 0, len(m))
	for e, ts := range m {
		entries = append(entries, &lwwpb.Entry{Element: e, Timestamp: ts})
	}
	slices.SortFunc(entries, func(a, b *lwwpb.Entry) int {
		return cmp.Compare(a.Element, b.Element)
	})
	return entries
}

// protoToState converts a wire state back into a set state.
func protoToState(pb *lwwpb.StateResponse) lww.State[string, int64] {
	st := lww.State[string, int64]{
		Baseline: pb.Baseline,
		Adds:     make(map[string]int64, len(pb.Adds)),
		Removes:  make(map[string]int64, len(pb.Removes)),
	}
	for _, e := range pb.Adds {
		st.Adds[e.Element] = e.Timestamp
	}
	for _, e := range pb.Removes {
		st.Removes[e.Element] = e.Timestamp
	}
	return st
}
