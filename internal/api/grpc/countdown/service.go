package countdown

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Fully qualified TimerService method names.
const (
	TimerService_AddTimer_FullMethodName    = "/countdown.v1.TimerService/AddTimer"    //nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
	TimerService_RemoveTimer_FullMethodName = "/countdown.v1.TimerService/RemoveTimer" //nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
	TimerService_StartTimer_FullMethodName  = "/countdown.v1.TimerService/StartTimer"  //nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
	TimerService_PauseTimer_FullMethodName  = "/countdown.v1.TimerService/PauseTimer"  //nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
	TimerService_ResetTimer_FullMethodName  = "/countdown.v1.TimerService/ResetTimer"  //nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
	TimerService_RenameTimer_FullMethodName = "/countdown.v1.TimerService/RenameTimer" //nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
	TimerService_ResetAll_FullMethodName    = "/countdown.v1.TimerService/ResetAll"    //nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
	TimerService_ListTimers_FullMethodName  = "/countdown.v1.TimerService/ListTimers"  //nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
	TimerService_WatchTimers_FullMethodName = "/countdown.v1.TimerService/WatchTimers" //nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
)

// TimerServiceServer is the server API for TimerService.
type TimerServiceServer interface {
	AddTimer(ctx context.Context, req *AddTimerRequest) (*Timer, error)
	RemoveTimer(ctx context.Context, req *TimerIDRequest) (*Empty, error)
	StartTimer(ctx context.Context, req *TimerIDRequest) (*Timer, error)
	PauseTimer(ctx context.Context, req *TimerIDRequest) (*Timer, error)
	ResetTimer(ctx context.Context, req *TimerIDRequest) (*Timer, error)
	RenameTimer(ctx context.Context, req *RenameTimerRequest) (*Timer, error)
	ResetAll(ctx context.Context, req *Empty) (*TimerList, error)
	ListTimers(ctx context.Context, req *Empty) (*TimerList, error)
	WatchTimers(req *Empty, stream TimerService_WatchTimersServer) error
}

// TimerService_WatchTimersServer is the server side of the WatchTimers stream.
//
//nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
type TimerService_WatchTimersServer interface {
	Send(list *TimerList) error
	grpc.ServerStream
}

type timerServiceWatchTimersServer struct {
	grpc.ServerStream
}

func (x *timerServiceWatchTimersServer) Send(list *TimerList) error {
	return x.ServerStream.SendMsg(toWire(list))
}

// RegisterTimerServiceServer registers srv on s.
func RegisterTimerServiceServer(s grpc.ServiceRegistrar, srv TimerServiceServer) {
	s.RegisterService(&TimerService_ServiceDesc, srv)
}

// unaryHandler builds a grpc.MethodHandler for a unary method. Requests are
// decoded from protobuf before call and responses encoded after it, so
// interceptors see the Go request and the protobuf response.
func unaryHandler[Req, Resp any, PReq interface {
	*Req
	message
}, PResp interface {
	*Resp
	message
}](
	fullMethod string,
	call func(srv TimerServiceServer, ctx context.Context, req PReq) (PResp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))

		wire := dynamicpb.NewMessage(in.descriptor())
		if err := dec(wire); err != nil {
			return nil, err
		}

		in.decode(wire)

		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(TimerServiceServer), ctx, req.(PReq))
			if err != nil {
				return nil, err
			}

			return toWire(resp), nil
		}

		if interceptor == nil {
			return handler(ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		return interceptor(ctx, in, info, handler)
	}
}

func watchTimersHandler(srv any, stream grpc.ServerStream) error {
	in := new(Empty)

	wire := dynamicpb.NewMessage(in.descriptor())
	if err := stream.RecvMsg(wire); err != nil {
		return err
	}

	in.decode(wire)

	return srv.(TimerServiceServer).WatchTimers(in, &timerServiceWatchTimersServer{stream})
}

// TimerService_ServiceDesc describes TimerService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals,revive,stylecheck // Mirrors protoc-gen-go-grpc output.
var TimerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "countdown.v1.TimerService",
	HandlerType: (*TimerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AddTimer",
			Handler: unaryHandler[AddTimerRequest, Timer](TimerService_AddTimer_FullMethodName,
				TimerServiceServer.AddTimer),
		},
		{
			MethodName: "RemoveTimer",
			Handler: unaryHandler[TimerIDRequest, Empty](TimerService_RemoveTimer_FullMethodName,
				TimerServiceServer.RemoveTimer),
		},
		{
			MethodName: "StartTimer",
			Handler: unaryHandler[TimerIDRequest, Timer](TimerService_StartTimer_FullMethodName,
				TimerServiceServer.StartTimer),
		},
		{
			MethodName: "PauseTimer",
			Handler: unaryHandler[TimerIDRequest, Timer](TimerService_PauseTimer_FullMethodName,
				TimerServiceServer.PauseTimer),
		},
		{
			MethodName: "ResetTimer",
			Handler: unaryHandler[TimerIDRequest, Timer](TimerService_ResetTimer_FullMethodName,
				TimerServiceServer.ResetTimer),
		},
		{
			MethodName: "RenameTimer",
			Handler: unaryHandler[RenameTimerRequest, Timer](TimerService_RenameTimer_FullMethodName,
				TimerServiceServer.RenameTimer),
		},
		{
			MethodName: "ResetAll",
			Handler: unaryHandler[Empty, TimerList](TimerService_ResetAll_FullMethodName,
				TimerServiceServer.ResetAll),
		},
		{
			MethodName: "ListTimers",
			Handler: unaryHandler[Empty, TimerList](TimerService_ListTimers_FullMethodName,
				TimerServiceServer.ListTimers),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchTimers",
			Handler:       watchTimersHandler,
			ServerStreams: true,
		},
	},
	Metadata: protoFile,
}

// TimerServiceClient is the client API for TimerService.
type TimerServiceClient interface {
	AddTimer(ctx context.Context, in *AddTimerRequest, opts ...grpc.CallOption) (*Timer, error)
	RemoveTimer(ctx context.Context, in *TimerIDRequest, opts ...grpc.CallOption) (*Empty, error)
	StartTimer(ctx context.Context, in *TimerIDRequest, opts ...grpc.CallOption) (*Timer, error)
	PauseTimer(ctx context.Context, in *TimerIDRequest, opts ...grpc.CallOption) (*Timer, error)
	ResetTimer(ctx context.Context, in *TimerIDRequest, opts ...grpc.CallOption) (*Timer, error)
	RenameTimer(ctx context.Context, in *RenameTimerRequest, opts ...grpc.CallOption) (*Timer, error)
	ResetAll(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TimerList, error)
	ListTimers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TimerList, error)
	WatchTimers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (TimerService_WatchTimersClient, error)
}

// TimerService_WatchTimersClient is the client side of the WatchTimers stream.
//
//nolint:revive,stylecheck // Mirrors protoc-gen-go-grpc naming.
type TimerService_WatchTimersClient interface {
	Recv() (*TimerList, error)
	grpc.ClientStream
}

type timerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTimerServiceClient creates a TimerService client on cc.
//
//nolint:ireturn // Mirrors protoc-gen-go-grpc output.
func NewTimerServiceClient(cc grpc.ClientConnInterface) TimerServiceClient {
	return &timerServiceClient{cc}
}

// invoke performs a unary call, converting in and the response through protobuf.
func invoke[Resp any, PResp interface {
	*Resp
	message
}](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in message,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := PResp(new(Resp))

	reply := dynamicpb.NewMessage(out.descriptor())
	if err := cc.Invoke(ctx, method, toWire(in), reply, opts...); err != nil {
		return nil, err
	}

	out.decode(reply)

	return (*Resp)(out), nil
}

func (c *timerServiceClient) AddTimer(ctx context.Context, in *AddTimerRequest, opts ...grpc.CallOption) (*Timer, error) {
	return invoke[Timer](ctx, c.cc, TimerService_AddTimer_FullMethodName, in, opts)
}

func (c *timerServiceClient) RemoveTimer(ctx context.Context, in *TimerIDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, TimerService_RemoveTimer_FullMethodName, in, opts)
}

func (c *timerServiceClient) StartTimer(ctx context.Context, in *TimerIDRequest, opts ...grpc.CallOption) (*Timer, error) {
	return invoke[Timer](ctx, c.cc, TimerService_StartTimer_FullMethodName, in, opts)
}

func (c *timerServiceClient) PauseTimer(ctx context.Context, in *TimerIDRequest, opts ...grpc.CallOption) (*Timer, error) {
	return invoke[Timer](ctx, c.cc, TimerService_PauseTimer_FullMethodName, in, opts)
}

func (c *timerServiceClient) ResetTimer(ctx context.Context, in *TimerIDRequest, opts ...grpc.CallOption) (*Timer, error) {
	return invoke[Timer](ctx, c.cc, TimerService_ResetTimer_FullMethodName, in, opts)
}

func (c *timerServiceClient) RenameTimer(
	ctx context.Context,
	in *RenameTimerRequest,
	opts ...grpc.CallOption,
) (*Timer, error) {
	return invoke[Timer](ctx, c.cc, TimerService_RenameTimer_FullMethodName, in, opts)
}

func (c *timerServiceClient) ResetAll(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TimerList, error) {
	return invoke[TimerList](ctx, c.cc, TimerService_ResetAll_FullMethodName, in, opts)
}

func (c *timerServiceClient) ListTimers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*TimerList, error) {
	return invoke[TimerList](ctx, c.cc, TimerService_ListTimers_FullMethodName, in, opts)
}

//nolint:ireturn // Mirrors protoc-gen-go-grpc output.
func (c *timerServiceClient) WatchTimers(
	ctx context.Context,
	in *Empty,
	opts ...grpc.CallOption,
) (TimerService_WatchTimersClient, error) {
	stream, err := c.cc.NewStream(ctx, &TimerService_ServiceDesc.Streams[0], TimerService_WatchTimers_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}

	x := &timerServiceWatchTimersClient{stream}
	if err := x.ClientStream.SendMsg(toWire(in)); err != nil {
		return nil, err
	}

	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}

	return x, nil
}

type timerServiceWatchTimersClient struct {
	grpc.ClientStream
}

func (x *timerServiceWatchTimersClient) Recv() (*TimerList, error) {
	wire := dynamicpb.NewMessage(timerListDesc)
	if err := x.ClientStream.RecvMsg(wire); err != nil {
		return nil, err
	}

	m := new(TimerList)
	m.decode(wire)

	return m, nil
}
