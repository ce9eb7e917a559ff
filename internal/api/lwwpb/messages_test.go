package lwwpb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestStateResponse_WireRoundTrip(t *testing.T) {
	in := &StateResponse{
		NodeId:   "n1",
		Baseline: -5,
		Adds:     []*Entry{{Element: "a", Timestamp: 1}, {Element: "b", Timestamp: 2}},
		Removes:  []*Entry{{Element: "a", Timestamp: 3}},
	}

	var c Codec
	data, err := c.Marshal(in)
	require.NoError(t, err)

	out := &StateResponse{}
	require.NoError(t, c.Unmarshal(data, out))
	assert.Equal(t, in, out)
}

func TestGetResponse_KeepsEmptyElements(t *testing.T) {
	in := &GetResponse{Elements: []string{"", "x"}}
	data, err := in.MarshalWire()
	require.NoError(t, err)

	out := &GetResponse{}
	require.NoError(t, out.UnmarshalWire(data))
	assert.Equal(t, []string{"", "x"}, out.Elements)
}

func TestUnmarshal_SkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.BytesType)
	b = protowire.AppendString(b, "future field")
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "e")
	b = protowire.AppendTag(b, 10, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 42)

	req := &ExistsRequest{}
	require.NoError(t, req.UnmarshalWire(b))
	assert.Equal(t, "e", req.Element)
}

func TestUnmarshal_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated tag", []byte{0x80}},
		{"truncated string", []byte{0x0a, 0x05, 'a'}},
		{"wrong wire type", protowire.AppendVarint(protowire.AppendTag(nil, 1, protowire.VarintType), 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, (&AddRequest{}).UnmarshalWire(tt.data))
		})
	}
}

func TestCodec_RejectsForeignTypes(t *testing.T) {
	var c Codec
	_, err := c.Marshal("not a message")
	assert.Error(t, err)
	assert.Error(t, c.Unmarshal(nil, new(int)))
	assert.Equal(t, "lwwproto", c.Name())
}

func TestStrings_RejectInvalidUTF8(t *testing.T) {
	bad := string([]byte{0xff, 0xfe})

	_, err := (&AddRequest{Element: bad}).MarshalWire()
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	_, err = (&RemoveRequest{Element: "ok", RequestId: bad}).MarshalWire()
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	_, err = (&ExistsRequest{Element: bad}).MarshalWire()
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(bad))

	assert.ErrorIs(t, (&AddRequest{}).UnmarshalWire(b), ErrInvalidUTF8)
	assert.ErrorIs(t, (&ExistsRequest{}).UnmarshalWire(b), ErrInvalidUTF8)
	assert.ErrorIs(t, (&GetResponse{}).UnmarshalWire(b), ErrInvalidUTF8)
}
