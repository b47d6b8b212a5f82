package main

import (
	"fmt"
	"os"
	"time"

	"github.com/emptyOVO/crimecount"
	"github.com/emptyOVO/crimecount/batch"
	"github.com/emptyOVO/crimecount/mrapps"
	"github.com/emptyOVO/crimecount/streaming"
	"github.com/spf13/cobra"
)

type jobFlags struct {
	files     []string
	job       string
	plugin    string
	nReducer  int
	nWorker   int
	inRAM     bool
	combine   bool
	chunkSize int64
	imdDir    string
	outputDir string
}

func (f *jobFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVarP(&f.files, "input", "i", getenvList("CRIMECOUNT_INPUT"), "Input files (globs allowed)")
	flags.StringVarP(&f.job, "job", "j", getenvDefault("CRIMECOUNT_JOB", mrapps.CategoryCount.Name), "Job to run: category or location")
	flags.StringVarP(&f.plugin, "plugin", "p", os.Getenv("CRIMECOUNT_PLUGIN"), "Plugin .so file replacing the builtin jobs")
	flags.IntVarP(&f.nReducer, "reduce", "r", getenvInt("CRIMECOUNT_REDUCERS", 4), "Number of reducers")
	flags.BoolVarP(&f.inRAM, "inRAM", "m", getenvBool("CRIMECOUNT_IN_RAM", true), "Whether write the intermediate file in RAM")
	flags.BoolVar(&f.combine, "combine", getenvBool("CRIMECOUNT_COMBINE", true), "Sum pairs on the map side before the shuffle")
	flags.Int64Var(&f.chunkSize, "chunk-size", int64(getenvInt("CRIMECOUNT_CHUNK_SIZE", 0)), "Bytes per map range (0 for the default)")
	flags.StringVar(&f.imdDir, "imd-dir", getenvDefault("CRIMECOUNT_IMD_DIR", ""), "Directory for intermediate files when not in RAM")
	flags.StringVarP(&f.outputDir, "output", "o", getenvDefault("CRIMECOUNT_OUTPUT", "output"), "Directory for reduce outputs")
}

func (f *jobFlags) jobConfig() (crimecount.JobConfig, error) {
	files, err := crimecount.ExpandInputs(f.files)
	if err != nil {
		return crimecount.JobConfig{}, err
	}
	if len(files) == 0 {
		return crimecount.JobConfig{}, fmt.Errorf("--input is required")
	}
	return crimecount.JobConfig{
		Files:      files,
		Job:        f.job,
		PluginPath: f.plugin,
		NReduce:    f.nReducer,
		NWorker:    f.nWorker,
		InRAM:      f.inRAM,
		Combine:    f.combine,
		ChunkSize:  f.chunkSize,
		IMDDir:     f.imdDir,
		OutputDir:  f.outputDir,
	}, nil
}

func newRunCmd() *cobra.Command {
	var (
		jf         jobFlags
		top        int
		configPath string
		checkOnly  bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a job on in-process workers and print the largest counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			if configPath != "" {
				cfg, err := batch.LoadFlowConfig(configPath)
				if err != nil {
					return err
				}
				if err := batch.ValidateFlowConfig(cfg); err != nil {
					return err
				}
				if checkOnly {
					fmt.Fprintln(out, "config check pass")
					return nil
				}
				res, err := batch.RunFlow(ctx, cfg)
				if err == nil {
					printTop(out, res.Counts, top)
					fmt.Fprintf(out, "source=%s transform=%s sink=%s total=%s\n",
						res.SourceDuration, res.TransformDuration, res.SinkDuration, res.TotalDuration)
				}
				printStatus(out, err)
				return err
			}
			if checkOnly {
				return fmt.Errorf("--check requires --config")
			}

			cfg, err := jf.jobConfig()
			if err != nil {
				return err
			}
			started := time.Now()
			outputs, err := crimecount.StartSingleMachineJob(ctx, cfg)
			if err == nil {
				var counts map[string]int64
				counts, err = batch.ReadReduceOutputs(outputs)
				if err == nil {
					printTop(out, counts, top)
					fmt.Fprintf(out, "%d keys in %s\n", len(counts), time.Since(started).Round(time.Millisecond))
				}
			}
			printStatus(out, err)
			return err
		},
	}
	jf.register(cmd)
	cmd.Flags().IntVarP(&jf.nWorker, "worker", "w", getenvInt("CRIMECOUNT_WORKERS", 4), "Number of workers")
	cmd.Flags().IntVarP(&top, "top", "n", getenvInt("CRIMECOUNT_TOP", 20), "Print the n largest counts (0 for all)")
	cmd.Flags().StringVar(&configPath, "config", "", "Flow config file (JSON or YAML)")
	cmd.Flags().BoolVar(&checkOnly, "check", false, "Validate the flow config only")
	return cmd
}

func newMapperCmd() *cobra.Command {
	var job string
	cmd := &cobra.Command{
		Use:   "mapper",
		Short: "Hadoop streaming mapper: CSV lines on stdin, key/count pairs on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := mrapps.Lookup(job)
			if err != nil {
				return err
			}
			return streaming.RunMapper(j, cmd.InOrStdin(), cmd.OutOrStdout(), streaming.NewReporter(cmd.ErrOrStderr()))
		},
	}
	cmd.Flags().StringVarP(&job, "job", "j", getenvDefault("CRIMECOUNT_JOB", mrapps.CategoryCount.Name), "Job to run: category or location")
	return cmd
}

func newReducerCmd() *cobra.Command {
	var job string
	cmd := &cobra.Command{
		Use:   "reducer",
		Short: "Hadoop streaming reducer: sorted key/count pairs on stdin, totals on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := mrapps.Lookup(job)
			if err != nil {
				return err
			}
			return streaming.RunReducer(j, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&job, "job", "j", getenvDefault("CRIMECOUNT_JOB", mrapps.CategoryCount.Name), "Job to run: category or location")
	return cmd
}

func newWorkerCmd() *cobra.Command {
	var cfg crimecount.WorkerConfig
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Serve map and reduce tasks until a master ends the worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return crimecount.StartWorker(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", getenvDefault("CRIMECOUNT_WORKER_ADDR", ":10001"), "Listen address; busy ports are skipped")
	cmd.Flags().StringVarP(&cfg.PluginPath, "plugin", "p", os.Getenv("CRIMECOUNT_PLUGIN"), "Plugin .so file replacing the builtin jobs")
	cmd.Flags().BoolVarP(&cfg.InRAM, "inRAM", "m", getenvBool("CRIMECOUNT_IN_RAM", true), "Whether write the intermediate file in RAM")
	cmd.Flags().StringVar(&cfg.IMDDir, "imd-dir", getenvDefault("CRIMECOUNT_IMD_DIR", ""), "Directory for intermediate files when not in RAM")
	return cmd
}

func newMasterCmd() *cobra.Command {
	var (
		jf       jobFlags
		workers  []string
		shutdown bool
		top      int
	)
	cmd := &cobra.Command{
		Use:   "master",
		Short: "Drive a job over running worker processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := jf.jobConfig()
			if err != nil {
				return err
			}
			outputs, err := crimecount.StartMaster(cmd.Context(), cfg, workers, shutdown)
			if err == nil {
				var counts map[string]int64
				counts, err = batch.ReadReduceOutputs(outputs)
				if err == nil {
					printTop(out, counts, top)
				}
			}
			printStatus(out, err)
			return err
		},
	}
	jf.register(cmd)
	cmd.Flags().StringSliceVar(&workers, "workers", getenvList("CRIMECOUNT_WORKERS_ADDRS"), "Worker addresses")
	cmd.Flags().BoolVar(&shutdown, "shutdown", getenvBool("CRIMECOUNT_SHUTDOWN", true), "Stop the workers when the job ends")
	cmd.Flags().IntVarP(&top, "top", "n", getenvInt("CRIMECOUNT_TOP", 20), "Print the n largest counts (0 for all)")
	return cmd
}
