package rpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// MaxMsgSize bounds intermediate data moved in a single call.
const MaxMsgSize = 512 << 20

// Dial opens a client connection to a worker.
func Dial(addr string) (*grpc.ClientConn, WorkerClient, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(MaxMsgSize),
			grpc.MaxCallSendMsgSize(MaxMsgSize),
		),
	)
	if err != nil {
		return nil, nil, err
	}
	return conn, NewWorkerClient(conn), nil
}

// NewServer returns a grpc server sized for intermediate data.
func NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.MaxRecvMsgSize(MaxMsgSize),
		grpc.MaxSendMsgSize(MaxMsgSize),
	}, opts...)
	return grpc.NewServer(opts...)
}
