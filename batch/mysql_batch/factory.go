package mysql_batch

import (
	"context"
	"database/sql"
)

type SinkAdapter struct {
	cfg SinkConfig
}

func NewSinkAdapter(cfg SinkConfig) SinkAdapter {
	return SinkAdapter{cfg: cfg}
}

func (a SinkAdapter) Import(ctx context.Context, db *sql.DB, counts map[string]int64) error {
	return ImportCounts(ctx, db, a.cfg, counts)
}
