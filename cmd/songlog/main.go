package main

import (
	"fmt"
	"os"

	"github.com/pevans/songlog/collection"
	"github.com/pevans/songlog/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	settings := loadSettings()

	// Get subcommand
	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "watch":
		handleWatch(settings, args)
	case "extract":
		handleExtract(settings, args)
	case "stats":
		handleStats(settings, args)
	case "export":
		handleExport(settings, args)
	case "cleanup":
		handleCleanup(settings, args)
	case "clear":
		handleClear(settings, args)
	case "toggle":
		handleToggle(settings, args)
	case "init":
		handleInit(args)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

// loadSettings resolves settings, warning and continuing when the config
// file cannot be used.
func loadSettings() config.Settings {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load configuration: %v\n", err)
		fmt.Fprintf(os.Stderr, "Continuing with defaults and environment variables...\n\n")
	}
	return settings
}

// openStore opens the collection database or exits.
func openStore(dsn string) *collection.Store {
	store, err := collection.NewStore(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open collection store: %v\n", err)
		os.Exit(1)
	}
	return store
}

func printUsage() {
	fmt.Println("songlog - YouTube Music song collector")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  songlog <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  watch      Open YouTube Music in Chrome and collect songs while you browse")
	fmt.Println("  extract    Collect songs from a saved page")
	fmt.Println("  stats      Show collection statistics")
	fmt.Println("  export     Write the collection to a JSON file")
	fmt.Println("  cleanup    Remove duplicate songs from the collection")
	fmt.Println("  clear      Delete all collected data")
	fmt.Println("  toggle     Turn collection on or off")
	fmt.Println("  init       Create the config file and database")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  SONGLOG_DSN            Path to the collection database (default: songlog.db)")
	fmt.Println("  SONGLOG_START_URL      Page the watcher opens first")
	fmt.Println("  SONGLOG_SETTLE_DELAY   Wait after a navigation before reading the page (default: 2s)")
	fmt.Println("  SONGLOG_HEADLESS       Run Chrome without a window (default: false)")
	fmt.Println("  SONGLOG_USER_DATA_DIR  Chrome profile directory to sign in with")
	fmt.Println("  SONGLOG_API_ADDR       Control API listen address (default: localhost:8787)")
}
