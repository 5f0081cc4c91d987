package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/uptrace/bun/migrate"

	"github.com/rgbnode/refreshd/pkg/config"
	"github.com/rgbnode/refreshd/pkg/migrations/refreshdb"
	"github.com/rgbnode/refreshd/pkg/pgutil"
	mghelper "github.com/rgbnode/refreshd/pkg/pgutil/migrations"
)

func main() {
	flag.Usage = mghelper.Usage
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %s", err.Error())
	}

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %s", err.Error())
	}
	defer db.Close()

	fmt.Printf("Running migrations for refresh orchestrator database (%s)...\n", cfg.Database.Database)

	migrator := migrate.NewMigrator(db, refreshdb.Migrations)
	if err := mghelper.RunMigrations(migrator, flag.Args()...); err != nil {
		mghelper.Exitf(err.Error())
	}
}
