package main

import (
	"context"
	"fmt"
	"os"

	"labkit/pkg/config"
	"labkit/pkg/db"
)

func main() {
	cfg := config.Load()
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}

	if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}

	// Sanity check that the runtime connection opens. DSNs are not printed to
	// keep secrets out of logs.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime db open failed: %v\n", err)
		os.Exit(1)
	}
	pool.Close()

	fmt.Println("migrations applied")
}
