package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/emptyOVO/crimecount/batch"
	log "github.com/sirupsen/logrus"
)

func getenvDefault(name, d string) string {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	return v
}

func getenvInt(name string, d int) int {
	v := os.Getenv(name)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return d
	}
	return n
}

func main() {
	cfg := batch.FlowConfig{
		Version: batch.FlowVersionV1,
		Source: batch.FlowSourceConfig{
			Type:  "files",
			Files: strings.Split(getenvDefault("INPUT", "txt/Police.csv"), ","),
		},
		Transform: batch.FlowTransformConfig{
			Job:      getenvDefault("JOB", "category"),
			Reducers: getenvInt("MR_REDUCERS", 4),
			Workers:  getenvInt("MR_WORKERS", 4),
		},
		Sink: batch.FlowSinkConfig{
			Type: "sqlite",
			SQLite: batch.SQLiteSinkConfig{
				Path:    getenvDefault("SQLITE_PATH", "crimecount.db"),
				Table:   getenvDefault("TARGET_TABLE", "crime_counts"),
				Replace: true,
			},
		},
	}

	res, err := batch.RunFlow(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	for _, kc := range batch.TopCounts(res.Counts, getenvInt("TOP", 10)) {
		fmt.Printf("%8d  %s\n", kc.Count, kc.Key)
	}
	fmt.Printf("flow done in %s\n", res.TotalDuration)
}
