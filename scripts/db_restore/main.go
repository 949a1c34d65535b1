// Command db_restore replaces the SQLite store with a backup file. Stop the
// server first.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PhamNghia11/career-web/internal/config"
	"github.com/PhamNghia11/career-web/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	in := flag.String("in", "", "backup file (default <database_path>.bak)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	dst := cfg.Storage.DatabasePath
	src := *in
	if src == "" {
		src = dst + ".bak"
	}

	if err := copyFile(src, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	// Open the restored file once so a corrupt backup is reported here.
	ctx := context.Background()
	database, err := db.New(ctx, dst, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore check error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()
	var result string
	if err := database.QueryRow(ctx, "PRAGMA integrity_check").Scan(&result); err != nil || result != "ok" {
		fmt.Fprintf(os.Stderr, "Restore check failed: %v %s\n", err, result)
		os.Exit(1)
	}

	fmt.Println("Database restore completed.")
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}
