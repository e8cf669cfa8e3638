package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pevans/songlog/collection"
	"github.com/pevans/songlog/collector"
	"github.com/pevans/songlog/config"
	"github.com/pevans/songlog/page"
)

func handleExtract(settings config.Settings, args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	file := fs.String("file", "", "Saved HTML page to read")
	pageURL := fs.String("url", "", "URL the page was saved from")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintf(os.Stderr, "Error: --file is required\n")
		fs.Usage()
		os.Exit(1)
	}
	if *pageURL == "" {
		fmt.Fprintf(os.Stderr, "Error: --url is required\n")
		fs.Usage()
		os.Exit(1)
	}

	store := openStore(settings.StorageDSN)
	defer store.Close()

	var saved collection.Notification
	merger := collection.NewMerger(store, collection.NotifierFunc(func(n collection.Notification) {
		saved = n
	}))

	source := &page.FileSource{URL: *pageURL, Path: *file}
	coll := collector.New(source, merger, &collector.Config{})

	resp, err := coll.ExtractNow(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to extract songs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Extracted %d songs from %s\n", resp.Count, *file)
	if saved.Count > 0 {
		fmt.Printf("  New: %d\n", saved.Count)
		fmt.Printf("  Total: %s\n", humanize.Comma(int64(saved.Total)))
	} else {
		fmt.Println("  No new songs")
	}
}

func handleStats(settings config.Settings, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	recent := fs.Int("recent", 0, "Also list the N most recently collected songs")
	format := fs.String("format", "table", "Output format: table or json")
	fs.Parse(args)

	store := openStore(settings.StorageDSN)
	defer store.Close()

	ctx := context.Background()

	songs, err := store.Songs(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load songs: %v\n", err)
		os.Exit(1)
	}
	enabled, err := store.Enabled(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load collection state: %v\n", err)
		os.Exit(1)
	}

	stats := summarize(songs, enabled)

	switch *format {
	case "json":
		printStatsJSON(stats)
	case "table":
		printStatsTable(stats)
		if *recent > 0 {
			fmt.Println()
			printSongsTable(lastSongs(songs, *recent))
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid format: %s (must be 'table' or 'json')\n", *format)
		os.Exit(1)
	}
}

func handleExport(settings config.Settings, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "Output file (default: youtube_music_data_YYYY-MM-DD.json)")
	fs.Parse(args)

	store := openStore(settings.StorageDSN)
	defer store.Close()

	now := time.Now()
	data, err := collection.Export(context.Background(), store, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to export songs: %v\n", err)
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = collection.ExportFilename(now)
	}

	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to encode export: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write export: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Exported %s songs to %s\n", humanize.Comma(int64(data.TotalSongs)), path)
}

func handleCleanup(settings config.Settings, args []string) {
	fs := flag.NewFlagSet("cleanup", flag.ExitOnError)
	fs.Parse(args)

	store := openStore(settings.StorageDSN)
	defer store.Close()

	result, err := collection.Cleanup(context.Background(), store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to clean up songs: %v\n", err)
		os.Exit(1)
	}

	if result.Removed == 0 {
		fmt.Printf("No duplicates found (%s songs)\n", humanize.Comma(int64(result.Remaining)))
		return
	}

	fmt.Printf("✓ Removed %d duplicates\n", result.Removed)
	fmt.Printf("  Remaining: %s\n", humanize.Comma(int64(result.Remaining)))
}

func handleClear(settings config.Settings, args []string) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Confirm deleting all collected data")
	fs.Parse(args)

	if !*yes {
		fmt.Fprintf(os.Stderr, "Error: this deletes all collected data; pass --yes to confirm\n")
		os.Exit(1)
	}

	store := openStore(settings.StorageDSN)
	defer store.Close()

	if err := store.Clear(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to clear data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ All data cleared")
}

func handleToggle(settings config.Settings, args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: state is required\n")
		fmt.Fprintf(os.Stderr, "Usage: songlog toggle <on|off>\n")
		os.Exit(1)
	}

	enabled, err := parseToggle(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore(settings.StorageDSN)
	defer store.Close()

	if err := store.SetEnabled(context.Background(), enabled); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save collection state: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Collection %s\n", statusLabel(enabled))
	fmt.Println("  A running watcher picks this up on restart, or use its control API")
}
