package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emptyOVO/crimecount/rpc"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// RpcClient fetches intermediate data from the worker that produced it.
type RpcClient interface {
	GetIMDData(ctx context.Context, ip string, filename string) ([]KV, error)
	Close() error
}

type peerClient struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
	peers map[string]rpc.WorkerClient
}

func newPeerClient() *peerClient {
	return &peerClient{
		conns: make(map[string]*grpc.ClientConn),
		peers: make(map[string]rpc.WorkerClient),
	}
}

func (client *peerClient) peer(ip string) (rpc.WorkerClient, error) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if c, ok := client.peers[ip]; ok {
		return c, nil
	}
	conn, c, err := rpc.Dial(ip)
	if err != nil {
		return nil, err
	}
	client.conns[ip] = conn
	client.peers[ip] = c
	return c, nil
}

func (client *peerClient) GetIMDData(ctx context.Context, ip string, filename string) ([]KV, error) {
	c, err := client.peer(ip)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	r, err := c.GetIMDData(ctx, &rpc.IMDLoc{
		Filename: filename,
	})
	if err != nil {
		if respErr, ok := status.FromError(err); ok {
			return nil, fmt.Errorf("get intermediate data: %s", respErr.Message())
		}
		return nil, err
	}

	return decodeIMDKVs(r.Kvs), nil
}

func (client *peerClient) Close() error {
	client.mu.Lock()
	defer client.mu.Unlock()
	for ip, conn := range client.conns {
		if err := conn.Close(); err != nil {
			log.Warnf("[Worker] close connection to %s: %v", ip, err)
		}
		delete(client.conns, ip)
		delete(client.peers, ip)
	}
	return nil
}
