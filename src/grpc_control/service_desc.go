package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is described by hand over protobuf well-known types, so no
// protoc step is needed.
//
//	service TickerControl {
//	  rpc Stream(google.protobuf.ListValue) returns (stream google.protobuf.Struct);
//	  rpc Cancel(google.protobuf.Empty) returns (google.protobuf.Empty);
//	  rpc Status(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc Drain(google.protobuf.UInt32Value) returns (google.protobuf.ListValue);
//	}
const (
	ServiceName = "ticker.v1.TickerControl"

	TickerControl_Stream_FullMethodName = "/ticker.v1.TickerControl/Stream"
	TickerControl_Cancel_FullMethodName = "/ticker.v1.TickerControl/Cancel"
	TickerControl_Status_FullMethodName = "/ticker.v1.TickerControl/Status"
	TickerControl_Drain_FullMethodName  = "/ticker.v1.TickerControl/Drain"
)

// -----------------------------------------------------------------------------
// Server side
// -----------------------------------------------------------------------------

type TickerControlServer interface {
	Stream(*structpb.ListValue, grpc.ServerStreamingServer[structpb.Struct]) error
	Cancel(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Drain(context.Context, *wrapperspb.UInt32Value) (*structpb.ListValue, error)
}

func RegisterTickerControlServer(s grpc.ServiceRegistrar, srv TickerControlServer) {
	s.RegisterService(&TickerControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

var TickerControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TickerControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Cancel", Handler: _TickerControl_Cancel_Handler},
		{MethodName: "Status", Handler: _TickerControl_Status_Handler},
		{MethodName: "Drain", Handler: _TickerControl_Drain_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Stream",
			Handler:       _TickerControl_Stream_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "ticker/v1/ticker.proto",
}

// -----------------------------------------------------------------------------

func _TickerControl_Stream_Handler(srv any, stream grpc.ServerStream) error {
	m := new(structpb.ListValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(TickerControlServer).Stream(m, &grpc.GenericServerStream[structpb.ListValue, structpb.Struct]{ServerStream: stream})
}

func _TickerControl_Cancel_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TickerControlServer).Cancel(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TickerControl_Cancel_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TickerControlServer).Cancel(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _TickerControl_Status_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TickerControlServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TickerControl_Status_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TickerControlServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _TickerControl_Drain_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.UInt32Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TickerControlServer).Drain(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TickerControl_Drain_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TickerControlServer).Drain(ctx, req.(*wrapperspb.UInt32Value))
	}
	return interceptor(ctx, in, info, handler)
}

// -----------------------------------------------------------------------------
// Client side
// -----------------------------------------------------------------------------

type TickerControlClient interface {
	Stream(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
	Cancel(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Drain(ctx context.Context, in *wrapperspb.UInt32Value, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type tickerControlClient struct {
	cc grpc.ClientConnInterface
}

func NewTickerControlClient(cc grpc.ClientConnInterface) TickerControlClient {
	return &tickerControlClient{cc}
}

// -----------------------------------------------------------------------------

func (c *tickerControlClient) Stream(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &TickerControl_ServiceDesc.Streams[0], TickerControl_Stream_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.ListValue, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *tickerControlClient) Cancel(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, TickerControl_Cancel_FullMethodName, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tickerControlClient) Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, TickerControl_Status_FullMethodName, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tickerControlClient) Drain(ctx context.Context, in *wrapperspb.UInt32Value, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, TickerControl_Drain_FullMethodName, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}
