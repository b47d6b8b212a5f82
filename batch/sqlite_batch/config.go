package sqlite_batch

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"
)

var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SinkConfig configures the import of job totals into a SQLite file.
type SinkConfig struct {
	Path      string `json:"path" yaml:"path"`
	Table     string `json:"table" yaml:"table"`
	KeyColumn string `json:"keycolumn" yaml:"keycolumn"`
	ValColumn string `json:"valcolumn" yaml:"valcolumn"`
	Replace   bool   `json:"replace" yaml:"replace"`
}

func (c *SinkConfig) WithDefaults() {
	if c.Path == "" {
		c.Path = "crimecount.db"
	}
	if c.Table == "" {
		c.Table = "crime_counts"
	}
	if c.KeyColumn == "" {
		c.KeyColumn = "crime_key"
	}
	if c.ValColumn == "" {
		c.ValColumn = "crime_count"
	}
}

func quoteIdentifier(s string) (string, error) {
	if !identifierRe.MatchString(s) {
		return "", fmt.Errorf("invalid identifier: %s", s)
	}
	return `"` + s + `"`, nil
}

type columns struct {
	table, key, val string
}

func (c SinkConfig) columns() (columns, error) {
	var cols columns
	var err error
	if cols.table, err = quoteIdentifier(c.Table); err != nil {
		return cols, err
	}
	if cols.key, err = quoteIdentifier(c.KeyColumn); err != nil {
		return cols, err
	}
	if cols.val, err = quoteIdentifier(c.ValColumn); err != nil {
		return cols, err
	}
	return cols, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return db, nil
}
