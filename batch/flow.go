package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emptyOVO/crimecount"
	"github.com/emptyOVO/crimecount/batch/mysql_batch"
	"github.com/emptyOVO/crimecount/batch/sqlite_batch"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// FlowConfig describes a source -> transform -> sink pipeline.
type FlowConfig struct {
	Version   string              `json:"version" yaml:"version"`
	Source    FlowSourceConfig    `json:"source" yaml:"source"`
	Transform FlowTransformConfig `json:"transform" yaml:"transform"`
	Sink      FlowSinkConfig      `json:"sink" yaml:"sink"`
}

type FlowSourceConfig struct {
	Type  string   `json:"type" yaml:"type"`
	Files []string `json:"files" yaml:"files"`
}

type FlowTransformConfig struct {
	Job        string `json:"job" yaml:"job"`
	PluginPath string `json:"plugin_path" yaml:"plugin_path"`
	Reducers   int    `json:"reducers" yaml:"reducers"`
	Workers    int    `json:"workers" yaml:"workers"`
	InRAM      bool   `json:"in_ram" yaml:"in_ram"`
	Combine    *bool  `json:"combine" yaml:"combine"`
	ChunkSize  int64  `json:"chunk_size" yaml:"chunk_size"`
	IMDDir     string `json:"imd_dir" yaml:"imd_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
}

// CombineEnabled reports whether map side combining is on. It defaults to
// true.
func (c FlowTransformConfig) CombineEnabled() bool {
	return c.Combine == nil || *c.Combine
}

type FlowSinkConfig struct {
	Type   string           `json:"type" yaml:"type"`
	Path   string           `json:"path" yaml:"path"`
	DB     DBConfig         `json:"db" yaml:"db"`
	Config SinkConfig       `json:"config" yaml:"config"`
	SQLite SQLiteSinkConfig `json:"sqlite" yaml:"sqlite"`
}

func (c *FlowConfig) withDefaults() {
	if c.Version == "" {
		c.Version = FlowVersionV1
	}
	if c.Source.Type == "" {
		c.Source.Type = "files"
	}
	if c.Sink.Type == "" {
		c.Sink.Type = "file"
	}
	if c.Transform.Reducers <= 0 {
		c.Transform.Reducers = 4
	}
	if c.Transform.Workers <= 0 {
		c.Transform.Workers = 4
	}
	if c.Transform.OutputDir == "" {
		c.Transform.OutputDir = "output"
	}
	c.Sink.Config.WithDefaults()
	c.Sink.SQLite.WithDefaults()
}

// LoadFlowConfig reads a flow config. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON. Unknown fields are rejected.
func LoadFlowConfig(path string) (FlowConfig, error) {
	var cfg FlowConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// FlowResult holds what a flow produced and how long each stage took.
type FlowResult struct {
	Outputs           []string
	Counts            map[string]int64
	SourceDuration    time.Duration
	TransformDuration time.Duration
	SinkDuration      time.Duration
	TotalDuration     time.Duration
}

// RunFlow executes source -> transform -> sink defined by FlowConfig.
func RunFlow(ctx context.Context, cfg FlowConfig) (FlowResult, error) {
	var res FlowResult
	started := time.Now()

	cfg.withDefaults()
	if err := ValidateFlowConfig(cfg); err != nil {
		return res, err
	}

	sSource := time.Now()
	files, err := crimecount.ExpandInputs(cfg.Source.Files)
	if err != nil {
		return res, err
	}
	res.SourceDuration = time.Since(sSource)
	if len(files) == 0 {
		return res, fmt.Errorf("no input files")
	}

	cleanupReduceOutputs(filepath.Join(cfg.Transform.OutputDir, "mr-out-*.txt"))

	sTransform := time.Now()
	outputs, err := RunMapReduce(ctx, MapReduceRunConfig{
		Files:      files,
		Job:        cfg.Transform.Job,
		PluginPath: cfg.Transform.PluginPath,
		Reducers:   cfg.Transform.Reducers,
		Workers:    cfg.Transform.Workers,
		InRAM:      cfg.Transform.InRAM,
		Combine:    cfg.Transform.CombineEnabled(),
		ChunkSize:  cfg.Transform.ChunkSize,
		IMDDir:     cfg.Transform.IMDDir,
		OutputDir:  cfg.Transform.OutputDir,
	})
	if err != nil {
		return res, err
	}
	res.Outputs = outputs
	res.TransformDuration = time.Since(sTransform)

	counts, err := ReadReduceOutputs(outputs)
	if err != nil {
		return res, err
	}
	res.Counts = counts

	sSink := time.Now()
	switch cfg.Sink.Type {
	case "file":
		if cfg.Sink.Path != "" {
			if err := writeCountsFile(cfg.Sink.Path, counts); err != nil {
				return res, err
			}
		}
	case "mysql":
		sinkDB, err := openDB(ctx, cfg.Sink.DB)
		if err != nil {
			return res, err
		}
		err = mysql_batch.NewSinkAdapter(cfg.Sink.Config).Import(ctx, sinkDB, counts)
		sinkDB.Close()
		if err != nil {
			return res, err
		}
	case "sqlite":
		if err := sqlite_batch.ImportCounts(ctx, cfg.Sink.SQLite, counts); err != nil {
			return res, err
		}
	}
	res.SinkDuration = time.Since(sSink)
	res.TotalDuration = time.Since(started)
	log.Infof("[Flow] %s: %d keys source=%s transform=%s sink=%s",
		cfg.Transform.Job, len(counts), res.SourceDuration, res.TransformDuration, res.SinkDuration)
	return res, nil
}

func cleanupReduceOutputs(inputGlob string) {
	if outs, err := filepath.Glob(inputGlob); err == nil {
		for _, out := range outs {
			_ = os.Remove(out)
		}
	}
}

// writeCountsFile writes every count as a "key\tcount" line, largest first.
func writeCountsFile(path string, counts map[string]int64) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, kc := range TopCounts(counts, 0) {
		fmt.Fprintf(w, "%s\t%d\n", kc.Key, kc.Count)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
