package crimecount

import (
	"context"

	"github.com/emptyOVO/crimecount/worker"
)

// WorkerConfig describes a standalone worker process.
type WorkerConfig struct {
	Addr       string
	PluginPath string
	InRAM      bool
	IMDDir     string
}

// StartWorker serves one worker until a master ends it or ctx is done. A busy
// port makes it try the following ones.
func StartWorker(ctx context.Context, cfg WorkerConfig) error {
	resolve, err := resolverFor("", cfg.PluginPath)
	if err != nil {
		return err
	}
	lis, err := listenWithRetry(cfg.Addr, 1)
	if err != nil {
		return err
	}
	return worker.StartWorker(ctx, lis, worker.NewWorker(resolve, cfg.InRAM, cfg.IMDDir))
}
