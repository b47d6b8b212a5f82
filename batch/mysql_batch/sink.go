package mysql_batch

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ImportCounts upserts counts into the target table. Rows go through a
// staging table first so the target is only touched by one statement.
func ImportCounts(ctx context.Context, db *sql.DB, cfg SinkConfig, counts map[string]int64) error {
	cfg.WithDefaults()
	if cfg.TargetTable == "" {
		return fmt.Errorf("target table is required")
	}

	table, err := quoteIdentifier(cfg.TargetTable)
	if err != nil {
		return err
	}
	keyCol, err := quoteIdentifier(cfg.KeyColumn)
	if err != nil {
		return err
	}
	valCol, err := quoteIdentifier(cfg.ValColumn)
	if err != nil {
		return err
	}
	stageTable, err := quoteIdentifier(cfg.TargetTable + "_staging_tmp")
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  %s VARCHAR(255) NOT NULL,
  %s BIGINT NOT NULL,
  PRIMARY KEY (%s)
)`, table, keyCol, valCol, keyCol)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, stageTable)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE %s (
  %s VARCHAR(255) NOT NULL,
  %s BIGINT NOT NULL,
  KEY idx_key (%s)
)`, stageTable, keyCol, valCol, keyCol)); err != nil {
		return err
	}

	if err := loadCountsIntoStage(ctx, tx, counts, stageTable, keyCol, valCol, cfg.BatchSize); err != nil {
		return err
	}

	if cfg.Replace {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return err
		}
	}

	upsertSQL := fmt.Sprintf(`
INSERT INTO %s (%s, %s)
SELECT %s, SUM(%s) AS total
FROM %s
GROUP BY %s
ON DUPLICATE KEY UPDATE %s=VALUES(%s)
`, table, keyCol, valCol, keyCol, valCol, stageTable, keyCol, valCol, valCol)
	if _, err := tx.ExecContext(ctx, upsertSQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE %s`, stageTable)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Infof("[Sink] imported %d keys into mysql table %s", len(counts), cfg.TargetTable)
	return nil
}

func stageInsertSQL(stageTable, keyCol, valCol string, rows int) string {
	valueSQL := make([]string, rows)
	for i := range valueSQL {
		valueSQL[i] = "(?, ?)"
	}
	return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES %s", stageTable, keyCol, valCol, strings.Join(valueSQL, ","))
}

func loadCountsIntoStage(ctx context.Context, tx *sql.Tx, counts map[string]int64, stageTable string, keyCol string, valCol string, batchSize int) error {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, batchSize*2)
	flush := func() error {
		if len(args) == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, stageInsertSQL(stageTable, keyCol, valCol, len(args)/2), args...); err != nil {
			return err
		}
		args = args[:0]
		return nil
	}
	for _, k := range keys {
		args = append(args, k, counts[k])
		if len(args) >= batchSize*2 {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
