package batch

import "context"

// MapReduceRunConfig describes a runtime invocation for a counting job.
type MapReduceRunConfig struct {
	Files      []string
	Job        string
	PluginPath string
	Reducers   int
	Workers    int
	InRAM      bool
	Combine    bool
	ChunkSize  int64
	IMDDir     string
	OutputDir  string
}

// Runner abstracts runtime startup strategy for map-reduce execution. Run
// returns the reduce output files.
type Runner interface {
	Run(ctx context.Context, cfg MapReduceRunConfig) ([]string, error)
}

var defaultRunner Runner = LocalRunner{}

// SetDefaultRunner overrides the process-wide runtime strategy.
func SetDefaultRunner(r Runner) {
	if r == nil {
		return
	}
	defaultRunner = r
}

// DefaultRunner returns the current process-wide runtime strategy.
func DefaultRunner() Runner {
	return defaultRunner
}

// RunMapReduce executes map-reduce through the configured runner.
func RunMapReduce(ctx context.Context, cfg MapReduceRunConfig) ([]string, error) {
	return DefaultRunner().Run(ctx, cfg)
}
