package refreshdb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/rgbnode/refreshd/pkg/pgutil/migrations"
	"github.com/rgbnode/refreshd/pkg/store"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return migrations.CreateSchema(ctx, db, (*store.JobDAO)(nil))
		},
		func(ctx context.Context, db *bun.DB) error {
			return migrations.DropTables(ctx, db, (*store.JobDAO)(nil))
		},
	)
}
