package batch

import (
	"fmt"
	"strings"

	"github.com/emptyOVO/crimecount/mrapps"
)

const FlowVersionV1 = "v1"

// ValidateFlowConfig validates v1 flow schema and required fields.
func ValidateFlowConfig(cfg FlowConfig) error {
	cfg.withDefaults()

	if strings.TrimSpace(cfg.Version) != FlowVersionV1 {
		return fmt.Errorf("unsupported version: %q (expected %q)", cfg.Version, FlowVersionV1)
	}
	if cfg.Source.Type != "files" {
		return fmt.Errorf("unsupported source.type: %s", cfg.Source.Type)
	}
	if len(cfg.Source.Files) == 0 {
		return fmt.Errorf("source.files is required")
	}

	if strings.TrimSpace(cfg.Transform.PluginPath) == "" {
		if _, err := mrapps.Lookup(cfg.Transform.Job); err != nil {
			return fmt.Errorf("transform.job: %w", err)
		}
	}
	if cfg.Transform.ChunkSize < 0 {
		return fmt.Errorf("transform.chunk_size must be >= 0")
	}

	switch cfg.Sink.Type {
	case "file", "sqlite":
	case "mysql":
		if cfg.Sink.DB.User == "" || cfg.Sink.DB.Database == "" {
			return fmt.Errorf("sink.db.user and sink.db.database are required for mysql sink")
		}
		if strings.TrimSpace(cfg.Sink.Config.TargetTable) == "" {
			return fmt.Errorf("sink.config.targettable is required for mysql sink")
		}
	default:
		return fmt.Errorf("unsupported sink.type: %s", cfg.Sink.Type)
	}
	return nil
}
