package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/emptyOVO/crimecount"
	"github.com/emptyOVO/crimecount/batch"
	"github.com/emptyOVO/crimecount/metrics"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	logLevel    string
	metricsAddr string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "crimecount",
		Short: "Count Raleigh police incidents by crime description or by location",
		Long: `crimecount tallies the Raleigh police incident CSV export.

The category job counts incidents per crime description, the location job
counts them per coordinate truncated to four decimal places. Jobs run on an
in-process worker pool, across worker processes, or as Hadoop streaming
mapper and reducer executables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := crimecount.SetLogLevel(opts.logLevel); err != nil {
				return err
			}
			if opts.metricsAddr != "" {
				metrics.Serve(opts.metricsAddr)
			}
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", getenvDefault("CRIMECOUNT_LOG_LEVEL", "info"), "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", os.Getenv("CRIMECOUNT_METRICS_ADDR"), "Serve Prometheus metrics on this address")

	root.AddCommand(
		newRunCmd(),
		newMapperCmd(),
		newReducerCmd(),
		newWorkerCmd(),
		newMasterCmd(),
	)
	return root
}

func printTop(w io.Writer, counts map[string]int64, n int) {
	for _, kc := range batch.TopCounts(counts, n) {
		fmt.Fprintf(w, "%s\t%d\n", kc.Key, kc.Count)
	}
}

func printStatus(w io.Writer, err error) {
	status := "Success"
	if err != nil {
		status = "Failure"
		log.Errorf("job failed: %v", err)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Exit Code = %s\n", status)
}
