package sqlite_batch

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
)

// ImportCounts upserts counts into the configured table in one transaction.
func ImportCounts(ctx context.Context, cfg SinkConfig, counts map[string]int64) error {
	cfg.WithDefaults()
	cols, err := cfg.columns()
	if err != nil {
		return err
	}
	db, err := openDB(cfg.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  %s TEXT NOT NULL PRIMARY KEY,
  %s INTEGER NOT NULL
)`, cols.table, cols.key, cols.val)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if cfg.Replace {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, cols.table)); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
INSERT INTO %s (%s, %s) VALUES (?, ?)
ON CONFLICT(%s) DO UPDATE SET %s = excluded.%s`,
		cols.table, cols.key, cols.val, cols.key, cols.val, cols.val))
	if err != nil {
		return err
	}
	defer stmt.Close()

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k, counts[k]); err != nil {
			return fmt.Errorf("upsert %q: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Infof("[Sink] imported %d keys into %s:%s", len(counts), cfg.Path, cfg.Table)
	return nil
}

// ReadCounts loads the whole table back.
func ReadCounts(ctx context.Context, cfg SinkConfig) (map[string]int64, error) {
	cfg.WithDefaults()
	cols, err := cfg.columns()
	if err != nil {
		return nil, err
	}
	db, err := openDB(cfg.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT %s, %s FROM %s`, cols.key, cols.val, cols.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var k string
		var v int64
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		counts[k] = v
	}
	return counts, rows.Err()
}
