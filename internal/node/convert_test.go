package node

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lwwset/internal/lww"
)

func TestStateToProto_SortedAndReversible(t *testing.T) {
	st := lww.State[string, int64]{
		Baseline: 4,
		Adds:     map[string]int64{"c": 3, "a": 1, "b": 2},
		Removes:  map[string]int64{},
	}

	pb := stateToProto(st)
	var order []string
	for _, e := range pb.Adds {
		order = append(order, e.Element)
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Empty(t, pb.Removes)

	assert.Equal(t, st, protoToState(pb))
}
