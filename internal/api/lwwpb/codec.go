package lwwpb

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype selecting the wire codec.
const CodecName = "lwwproto"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals Message values for gRPC. The bytes are standard protobuf
// wire format for the messages in api/lww/v1/lwwset.proto, so servers
// install it with grpc.ForceServerCodec and also answer clients that use
// the default proto content-subtype.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("lwwproto: cannot marshal %T", v)
	}
	return m.MarshalWire()
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("lwwproto: cannot unmarshal into %T", v)
	}
	return m.UnmarshalWire(data)
}

func (Codec) Name() string {
	return CodecName
}
