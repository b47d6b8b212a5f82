package mysql_batch

import (
	"fmt"
	"regexp"
)

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SinkConfig configures the import of job totals into MySQL.
type SinkConfig struct {
	TargetTable string `json:"targettable" yaml:"targettable"`
	KeyColumn   string `json:"keycolumn" yaml:"keycolumn"`
	ValColumn   string `json:"valcolumn" yaml:"valcolumn"`
	Replace     bool   `json:"replace" yaml:"replace"`
	BatchSize   int    `json:"batchsize" yaml:"batchsize"`
}

func (c *SinkConfig) WithDefaults() {
	if c.KeyColumn == "" {
		c.KeyColumn = "crime_key"
	}
	if c.ValColumn == "" {
		c.ValColumn = "crime_count"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 2000
	}
}

func quoteIdentifier(s string) (string, error) {
	if !identifierRe.MatchString(s) {
		return "", fmt.Errorf("invalid identifier: %s", s)
	}
	return "`" + s + "`", nil
}
