package crimecount

import (
	"context"
	"fmt"

	"github.com/emptyOVO/crimecount/master"
	"github.com/emptyOVO/crimecount/mrapps"
)

// StartMaster drives a job over workers already listening on the given
// addresses. When shutdown is set the workers are stopped afterwards.
func StartMaster(ctx context.Context, cfg JobConfig, workers []string, shutdown bool) ([]string, error) {
	cfg = cfg.withDefaults()
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	if cfg.PluginPath == "" {
		if _, err := mrapps.Lookup(cfg.Job); err != nil {
			return nil, err
		}
	}
	m, err := master.New(cfg.masterConfig(workers))
	if err != nil {
		return nil, err
	}
	defer m.Close()

	outputs, err := m.Run(ctx)
	if shutdown {
		m.Shutdown(context.Background())
	}
	return outputs, err
}
