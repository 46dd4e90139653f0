package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "rssi.StateService"

	getStateMethod   = "/" + ServiceName + "/GetState"
	watchStateMethod = "/" + ServiceName + "/WatchState"
)

// StateServiceServer is the server API for rssi.StateService. Both calls
// answer with the analyzed summary encoded as a google.protobuf.Struct.
type StateServiceServer interface {
	GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	WatchState(*emptypb.Empty, StateService_WatchStateServer) error
}

type StateService_WatchStateServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchStateServer struct {
	grpc.ServerStream
}

func (x *watchStateServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// StateServiceDesc describes rssi.StateService for grpc.Server.RegisterService.
var StateServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetState",
			Handler:    getStateHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchState",
			Handler:       watchStateHandler,
			ServerStreams: true,
		},
	},
	Metadata: "rssi/state.proto",
}

func RegisterStateServiceServer(s grpc.ServiceRegistrar, srv StateServiceServer) {
	s.RegisterService(&StateServiceDesc, srv)
}

func getStateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StateServiceServer).GetState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: getStateMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StateServiceServer).GetState(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func watchStateHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(StateServiceServer).WatchState(m, &watchStateServer{stream})
}

// StateServiceClient is the client API for rssi.StateService.
type StateServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewStateServiceClient(cc grpc.ClientConnInterface) *StateServiceClient {
	return &StateServiceClient{cc: cc}
}

func (c *StateServiceClient) GetState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getStateMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchState opens a server stream that yields one Struct per observed publication.
func (c *StateServiceClient) WatchState(ctx context.Context, opts ...grpc.CallOption) (*WatchStateClient, error) {
	stream, err := c.cc.NewStream(ctx, &StateServiceDesc.Streams[0], watchStateMethod, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &WatchStateClient{stream}, nil
}

type WatchStateClient struct {
	grpc.ClientStream
}

func (x *WatchStateClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
