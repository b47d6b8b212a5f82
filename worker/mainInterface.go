package worker

import (
	"context"
	"fmt"
	"net"
	"os"
	"plugin"

	"github.com/emptyOVO/crimecount/rpc"
	log "github.com/sirupsen/logrus"
)

// StartWorker serves wr on lis until the master calls End or ctx is done.
// Intermediate files are removed before it returns.
func StartWorker(ctx context.Context, lis net.Listener, wr *Worker) error {
	baseServer := rpc.NewServer()
	rpc.RegisterWorkerServer(baseServer, wr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- baseServer.Serve(lis)
	}()
	log.Infof("Worker gRPC server start on %s", lis.Addr())

	defer wr.removeIMDFiles()
	defer wr.Client.Close()

	select {
	case <-wr.EndChan:
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	baseServer.GracefulStop()
	log.Infof("Worker gRPC server on %s stopped", lis.Addr())
	return nil
}

// PluginResolver loads Map and Reduce from a plugin file, e.g. .so files,
// and serves them for every job name.
func PluginResolver(filename string) (Resolver, error) {
	mapf, reducef, err := loadPlugin(filename)
	if err != nil {
		return nil, err
	}
	return func(string) (MapFormat, ReduceFormat, error) {
		return mapf, reducef, nil
	}, nil
}

func loadPlugin(filename string) (MapFormat, ReduceFormat, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, nil, err
	}
	p, err := plugin.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	xmapf, err := p.Lookup("Map")
	if err != nil {
		return nil, nil, err
	}
	mapf, ok := xmapf.(func(string, string, MrContext))
	if !ok {
		return nil, nil, fmt.Errorf("plugin %s: Map has type %T", filename, xmapf)
	}
	xreducef, err := p.Lookup("Reduce")
	if err != nil {
		return nil, nil, err
	}
	reducef, ok := xreducef.(func(string, []string, MrContext) error)
	if !ok {
		return nil, nil, fmt.Errorf("plugin %s: Reduce has type %T", filename, xreducef)
	}

	return mapf, reducef, nil
}
