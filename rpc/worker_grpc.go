package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	Worker_Map_FullMethodName        = "/rpc.Worker/Map"
	Worker_Reduce_FullMethodName     = "/rpc.Worker/Reduce"
	Worker_GetIMDData_FullMethodName = "/rpc.Worker/GetIMDData"
	Worker_Health_FullMethodName     = "/rpc.Worker/Health"
	Worker_End_FullMethodName        = "/rpc.Worker/End"
)

// WorkerClient is the client API for the Worker service.
type WorkerClient interface {
	Map(ctx context.Context, in *MapInfo, opts ...grpc.CallOption) (*MapResult, error)
	Reduce(ctx context.Context, in *ReduceInfo, opts ...grpc.CallOption) (*ReduceResult, error)
	GetIMDData(ctx context.Context, in *IMDLoc, opts ...grpc.CallOption) (*KVs, error)
	Health(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*WorkerState, error)
	End(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
}

type workerClient struct {
	cc grpc.ClientConnInterface
}

func NewWorkerClient(cc grpc.ClientConnInterface) WorkerClient {
	return &workerClient{cc}
}

func invoke[Req any, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	req, err := ToStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	resp := new(Resp)
	if err := FromStruct(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *workerClient) Map(ctx context.Context, in *MapInfo, opts ...grpc.CallOption) (*MapResult, error) {
	return invoke[MapInfo, MapResult](ctx, c.cc, Worker_Map_FullMethodName, in, opts)
}

func (c *workerClient) Reduce(ctx context.Context, in *ReduceInfo, opts ...grpc.CallOption) (*ReduceResult, error) {
	return invoke[ReduceInfo, ReduceResult](ctx, c.cc, Worker_Reduce_FullMethodName, in, opts)
}

func (c *workerClient) GetIMDData(ctx context.Context, in *IMDLoc, opts ...grpc.CallOption) (*KVs, error) {
	return invoke[IMDLoc, KVs](ctx, c.cc, Worker_GetIMDData_FullMethodName, in, opts)
}

func (c *workerClient) Health(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*WorkerState, error) {
	return invoke[Empty, WorkerState](ctx, c.cc, Worker_Health_FullMethodName, in, opts)
}

func (c *workerClient) End(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty, Empty](ctx, c.cc, Worker_End_FullMethodName, in, opts)
}

// WorkerServer is the server API for the Worker service.
type WorkerServer interface {
	Map(context.Context, *MapInfo) (*MapResult, error)
	Reduce(context.Context, *ReduceInfo) (*ReduceResult, error)
	GetIMDData(context.Context, *IMDLoc) (*KVs, error)
	Health(context.Context, *Empty) (*WorkerState, error)
	End(context.Context, *Empty) (*Empty, error)
}

// UnimplementedWorkerServer can be embedded to have forward compatible implementations.
type UnimplementedWorkerServer struct{}

func (UnimplementedWorkerServer) Map(context.Context, *MapInfo) (*MapResult, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Map not implemented")
}
func (UnimplementedWorkerServer) Reduce(context.Context, *ReduceInfo) (*ReduceResult, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Reduce not implemented")
}
func (UnimplementedWorkerServer) GetIMDData(context.Context, *IMDLoc) (*KVs, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetIMDData not implemented")
}
func (UnimplementedWorkerServer) Health(context.Context, *Empty) (*WorkerState, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Health not implemented")
}
func (UnimplementedWorkerServer) End(context.Context, *Empty) (*Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method End not implemented")
}

func RegisterWorkerServer(s grpc.ServiceRegistrar, srv WorkerServer) {
	s.RegisterService(&Worker_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](fullMethod string, call func(WorkerServer, context.Context, *Req) (*Resp, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		req := new(Req)
		if err := FromStruct(in, req); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			resp, err := call(srv.(WorkerServer), ctx, req.(*Req))
			if err != nil {
				return nil, err
			}
			return ToStruct(resp)
		}
		if interceptor == nil {
			return handler(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		return interceptor(ctx, req, info, handler)
	}
}

// Worker_ServiceDesc is the grpc.ServiceDesc for the Worker service.
var Worker_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "rpc.Worker",
	HandlerType: (*WorkerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Map",
			Handler:    unaryHandler(Worker_Map_FullMethodName, WorkerServer.Map),
		},
		{
			MethodName: "Reduce",
			Handler:    unaryHandler(Worker_Reduce_FullMethodName, WorkerServer.Reduce),
		},
		{
			MethodName: "GetIMDData",
			Handler:    unaryHandler(Worker_GetIMDData_FullMethodName, WorkerServer.GetIMDData),
		},
		{
			MethodName: "Health",
			Handler:    unaryHandler(Worker_Health_FullMethodName, WorkerServer.Health),
		},
		{
			MethodName: "End",
			Handler:    unaryHandler(Worker_End_FullMethodName, WorkerServer.End),
		},
	},
	Streams: []grpc.StreamDesc{},
}
