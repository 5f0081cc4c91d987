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
			if err := migrations.CreateSchema(ctx, db, (*store.WatcherDAO)(nil)); err != nil {
				return err
			}
			_, err := db.NewCreateIndex().
				Model((*store.WatcherDAO)(nil)).
				Index("idx_refresh_watchers_xpub_van_recipient_id").
				Column("xpub_van", "recipient_id").
				Unique().
				IfNotExists().
				Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			return migrations.DropTables(ctx, db, (*store.WatcherDAO)(nil))
		},
	)
}
