package lwwpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "lww.v1.LWWSet"

const (
	LWWSet_Add_FullMethodName    = "/" + ServiceName + "/Add"
	LWWSet_Remove_FullMethodName = "/" + ServiceName + "/Remove"
	LWWSet_Exists_FullMethodName = "/" + ServiceName + "/Exists"
	LWWSet_Get_FullMethodName    = "/" + ServiceName + "/Get"
	LWWSet_State_FullMethodName  = "/" + ServiceName + "/State"
)

// LWWSetServer is the server API for the LWWSet service.
type LWWSetServer interface {
	Add(context.Context, *AddRequest) (*MutationResponse, error)
	Remove(context.Context, *RemoveRequest) (*MutationResponse, error)
	Exists(context.Context, *ExistsRequest) (*ExistsResponse, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	State(context.Context, *StateRequest) (*StateResponse, error)
}

// UnimplementedLWWSetServer can be embedded for forward compatibility.
type UnimplementedLWWSetServer struct{}

func (UnimplementedLWWSetServer) Add(context.Context, *AddRequest) (*MutationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Add not implemented")
}

func (UnimplementedLWWSetServer) Remove(context.Context, *RemoveRequest) (*MutationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Remove not implemented")
}

func (UnimplementedLWWSetServer) Exists(context.Context, *ExistsRequest) (*ExistsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Exists not implemented")
}

func (UnimplementedLWWSetServer) Get(context.Context, *GetRequest) (*GetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}

func (UnimplementedLWWSetServer) State(context.Context, *StateRequest) (*StateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method State not implemented")
}

// RegisterLWWSetServer registers srv on s.
func RegisterLWWSetServer(s grpc.ServiceRegistrar, srv LWWSetServer) {
	s.RegisterService(&LWWSet_ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(LWWSetServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LWWSetServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LWWSetServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LWWSet_ServiceDesc is the grpc.ServiceDesc for the LWWSet service.
var LWWSet_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LWWSetServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Add", Handler: unaryHandler(LWWSet_Add_FullMethodName, LWWSetServer.Add)},
		{MethodName: "Remove", Handler: unaryHandler(LWWSet_Remove_FullMethodName, LWWSetServer.Remove)},
		{MethodName: "Exists", Handler: unaryHandler(LWWSet_Exists_FullMethodName, LWWSetServer.Exists)},
		{MethodName: "Get", Handler: unaryHandler(LWWSet_Get_FullMethodName, LWWSetServer.Get)},
		{MethodName: "State", Handler: unaryHandler(LWWSet_State_FullMethodName, LWWSetServer.State)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/lww/v1/lwwset.proto",
}

// LWWSetClient is the client API for the LWWSet service.
type LWWSetClient interface {
	Add(ctx context.Context, in *AddRequest, opts ...grpc.CallOption) (*MutationResponse, error)
	Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*MutationResponse, error)
	Exists(ctx context.Context, in *ExistsRequest, opts ...grpc.CallOption) (*ExistsResponse, error)
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error)
	State(ctx context.Context, in *StateRequest, opts ...grpc.CallOption) (*StateResponse, error)
}

type lwwSetClient struct {
	cc grpc.ClientConnInterface
}

// NewLWWSetClient returns a client that always calls with the lwwproto codec.
func NewLWWSetClient(cc grpc.ClientConnInterface) LWWSetClient {
	return &lwwSetClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lwwSetClient) Add(ctx context.Context, in *AddRequest, opts ...grpc.CallOption) (*MutationResponse, error) {
	return invoke[MutationResponse](ctx, c.cc, LWWSet_Add_FullMethodName, in, opts)
}

func (c *lwwSetClient) Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*MutationResponse, error) {
	return invoke[MutationResponse](ctx, c.cc, LWWSet_Remove_FullMethodName, in, opts)
}

func (c *lwwSetClient) Exists(ctx context.Context, in *ExistsRequest, opts ...grpc.CallOption) (*ExistsResponse, error) {
	return invoke[ExistsResponse](ctx, c.cc, LWWSet_Exists_FullMethodName, in, opts)
}

func (c *lwwSetClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error) {
	return invoke[GetResponse](ctx, c.cc, LWWSet_Get_FullMethodName, in, opts)
}

func (c *lwwSetClient) State(ctx context.Context, in *StateRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	return invoke[StateResponse](ctx, c.cc, LWWSet_State_FullMethodName, in, opts)
}
