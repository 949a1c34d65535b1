// Command db_backup writes a consistent snapshot of the SQLite store next
// to it using VACUUM INTO.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/PhamNghia11/career-web/internal/config"
	"github.com/PhamNghia11/career-web/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	out := flag.String("out", "", "backup file (default <database_path>.bak)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.Driver == config.DriverMongo {
		fmt.Fprintln(os.Stderr, "Backup error: mongo stores are backed up with mongodump")
		os.Exit(1)
	}

	dst := *out
	if dst == "" {
		dst = cfg.Storage.DatabasePath + ".bak"
	}
	// VACUUM INTO refuses to overwrite an existing file
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	database, err := db.New(ctx, cfg.Storage.DatabasePath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if _, err := database.Exec(ctx, "VACUUM INTO ?", dst); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database backup written to %s.\n", dst)
}
