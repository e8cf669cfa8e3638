package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pevans/songlog/collection"
	"github.com/pevans/songlog/config"
)

func handleInit(args []string) {
	// Parse flags for init command
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file with the defaults")
	fs.Parse(args)

	fmt.Println("Initializing songlog...")
	fmt.Println()

	initSucceeded := true

	created, err := config.WriteDefaultConfigFile(*force)
	configPath, _ := config.ConfigFilePath()
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "  ✗ Failed to create config file: %v\n", err)
		initSucceeded = false
	case created:
		fmt.Printf("  ✓ Config file: %s\n", configPath)
	default:
		fmt.Printf("  Config file: %s (already exists)\n", configPath)
	}

	// Re-resolve so the database lands where the config file says
	settings := loadSettings()

	if _, err := os.Stat(settings.StorageDSN); err == nil {
		fmt.Printf("  Database: %s (already exists)\n", settings.StorageDSN)
	} else if err := initDatabase(settings.StorageDSN); err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Failed to initialize database: %v\n", err)
		initSucceeded = false
	} else {
		fmt.Printf("  ✓ Database: %s\n", settings.StorageDSN)
	}

	fmt.Println()
	if !initSucceeded {
		fmt.Fprintln(os.Stderr, "Initialization failed.")
		os.Exit(1)
	}
	fmt.Println("Ready. Run 'songlog watch' to start collecting.")
}

// initDatabase creates the database file and its schema.
func initDatabase(dsn string) error {
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := collection.NewStore(dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	// Touch the store so the file is written
	if _, err := store.Enabled(context.Background()); err != nil {
		return err
	}
	return nil
}
