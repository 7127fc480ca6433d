// Command migrate applies the SQL migrations to the asset store database
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"asset-inventory/internal/config"
	"asset-inventory/internal/server/store"
)

func main() {
	dir := flag.String("dir", "db/migrations", "migrations directory")
	dsn := flag.String("dsn", "", "database URL (overrides DB_DSN)")
	flag.Parse()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}
	if cfg.DSN == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN environment variable or -dsn is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pg, err := store.OpenPostgres(ctx, cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	applied, err := store.Migrate(ctx, pg.Pool, *dir)
	for _, name := range applied {
		fmt.Printf("Applied %s\n", name)
	}
	if err != nil {
		log.Fatal(err)
	}
	if len(applied) == 0 {
		fmt.Println("Nothing to apply, schema is up to date")
		return
	}
	fmt.Printf("All %d migrations applied successfully\n", len(applied))
}
