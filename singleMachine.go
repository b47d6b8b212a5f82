package crimecount

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/emptyOVO/crimecount/master"
	"github.com/emptyOVO/crimecount/worker"
	log "github.com/sirupsen/logrus"
)

// JobConfig describes one counting run.
type JobConfig struct {
	Files      []string
	Job        string
	PluginPath string
	NReduce    int
	NWorker    int
	InRAM      bool
	Combine    bool
	ChunkSize  int64
	IMDDir     string
	OutputDir  string
}

func (cfg JobConfig) withDefaults() JobConfig {
	if cfg.NReduce <= 0 {
		cfg.NReduce = 1
	}
	if cfg.NWorker <= 0 {
		cfg.NWorker = 4
	}
	return cfg
}

func (cfg JobConfig) masterConfig(workers []string) master.Config {
	return master.Config{
		Job:       cfg.Job,
		Files:     cfg.Files,
		Workers:   workers,
		NReduce:   cfg.NReduce,
		ChunkSize: cfg.ChunkSize,
		Combine:   cfg.Combine,
		OutputDir: cfg.OutputDir,
	}
}

// StartSingleMachineJob runs the job with NWorker in-process workers talking
// gRPC over loopback and returns the reduce output files.
func StartSingleMachineJob(ctx context.Context, cfg JobConfig) ([]string, error) {
	cfg = cfg.withDefaults()
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	resolve, err := resolverFor(cfg.Job, cfg.PluginPath)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, cfg.NWorker)
	addrs := make([]string, 0, cfg.NWorker)
	for i := 0; i < cfg.NWorker; i++ {
		lis, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			cancel()
			wg.Wait()
			return nil, fmt.Errorf("listen worker %d: %w", i, err)
		}
		addrs = append(addrs, lis.Addr().String())
		wr := worker.NewWorker(resolve, cfg.InRAM, cfg.IMDDir)
		wg.Add(1)
		go func(l net.Listener) {
			defer wg.Done()
			if err := worker.StartWorker(ctx, l, wr); err != nil {
				errCh <- err
			}
		}(lis)
	}

	m, err := master.New(cfg.masterConfig(addrs))
	if err != nil {
		cancel()
		wg.Wait()
		return nil, err
	}
	defer m.Close()

	outputs, runErr := m.Run(ctx)
	m.Shutdown(context.Background())
	cancel()
	wg.Wait()
	close(errCh)

	if runErr != nil {
		return nil, runErr
	}
	for err := range errCh {
		log.Errorf("[Master] worker stopped with error: %v", err)
		return nil, err
	}
	return outputs, nil
}
