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
			if err := migrations.CreateModelIndexes(ctx, db, (*store.JobDAO)(nil),
				"status", "created_at", "xpub_van", "recipient_id", "asset_id"); err != nil {
				return err
			}
			if err := migrations.CreateModelIndexes(ctx, db, (*store.WatcherDAO)(nil),
				"status", "expires_at", "xpub_van"); err != nil {
				return err
			}
			return migrations.CreateModelIndexes(ctx, db, (*store.WalletLockDAO)(nil), "expires_at")
		},
		func(ctx context.Context, db *bun.DB) error {
			if err := migrations.DropModelIndexes(ctx, db, (*store.JobDAO)(nil),
				"status", "created_at", "xpub_van", "recipient_id", "asset_id"); err != nil {
				return err
			}
			if err := migrations.DropModelIndexes(ctx, db, (*store.WatcherDAO)(nil),
				"status", "expires_at", "xpub_van"); err != nil {
				return err
			}
			return migrations.DropModelIndexes(ctx, db, (*store.WalletLockDAO)(nil), "expires_at")
		},
	)
}
