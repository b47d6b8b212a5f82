package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/emptyOVO/crimecount"
)

// LocalRunner runs the job with in-process workers on loopback.
type LocalRunner struct{}

var localRuntimeMu sync.Mutex

func (LocalRunner) Run(ctx context.Context, cfg MapReduceRunConfig) ([]string, error) {
	if len(cfg.Files) == 0 {
		return nil, nil
	}
	if cfg.Job == "" && cfg.PluginPath == "" {
		return nil, fmt.Errorf("job or plugin path is required")
	}
	if cfg.Reducers <= 0 {
		return nil, fmt.Errorf("reducers must be > 0")
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("workers must be > 0")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Runs share the output directory layout, so only one at a time.
	localRuntimeMu.Lock()
	defer localRuntimeMu.Unlock()

	return crimecount.StartSingleMachineJob(ctx, crimecount.JobConfig{
		Files:      cfg.Files,
		Job:        cfg.Job,
		PluginPath: cfg.PluginPath,
		NReduce:    cfg.Reducers,
		NWorker:    cfg.Workers,
		InRAM:      cfg.InRAM,
		Combine:    cfg.Combine,
		ChunkSize:  cfg.ChunkSize,
		IMDDir:     cfg.IMDDir,
		OutputDir:  cfg.OutputDir,
	})
}
