package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pevans/songlog/api"
	"github.com/pevans/songlog/browser"
	"github.com/pevans/songlog/collection"
	"github.com/pevans/songlog/collector"
	"github.com/pevans/songlog/config"
)

func handleWatch(settings config.Settings, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	startURL := fs.String("url", settings.StartURL, "Page to open first (SONGLOG_START_URL)")
	settleDelay := fs.Duration("settle-delay", settings.SettleDelay, "Wait after a navigation before reading the page (SONGLOG_SETTLE_DELAY)")
	headless := fs.Bool("headless", settings.Headless, "Run Chrome without a window (SONGLOG_HEADLESS)")
	useStealth := fs.Bool("stealth", settings.Stealth, "Hide automation markers from the page")
	profile := fs.String("profile", settings.UserDataDir, "Chrome profile directory (SONGLOG_USER_DATA_DIR)")
	addr := fs.String("addr", settings.APIAddr, "Control API listen address, empty to disable (SONGLOG_API_ADDR)")
	fs.Parse(args)

	log.Printf("Opening collection store: %s", settings.StorageDSN)
	store, err := collection.NewStore(settings.StorageDSN)
	if err != nil {
		log.Fatalf("Failed to open collection store: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	enabled, err := store.Enabled(ctx)
	if err != nil {
		log.Fatalf("Failed to read collection state: %v", err)
	}

	log.Printf("Opening %s", *startURL)
	browserConfig := browser.DefaultConfig()
	browserConfig.StartURL = *startURL
	browserConfig.Headless = *headless
	browserConfig.Stealth = *useStealth
	browserConfig.UserDataDir = *profile

	tab, err := browser.Open(ctx, browserConfig)
	if err != nil {
		log.Fatalf("Failed to open browser: %v", err)
	}
	defer tab.Close()

	badge := api.NewBadge()
	notifiers := collection.Notifiers{
		badge,
		collection.NotifierFunc(func(n collection.Notification) {
			log.Printf("INFO: Badge: %d songs (+%d)", n.Total, n.Count)
		}),
	}

	coll := collector.New(tab, collection.NewMerger(store, notifiers), &collector.Config{
		SettleDelay: *settleDelay,
	})
	coll.Toggle(enabled)

	var srv *http.Server
	if *addr != "" {
		server := api.NewAPIServer(store, coll, badge)
		srv = &http.Server{Addr: *addr, Handler: server.SetupRouter()}

		go func() {
			log.Printf("Starting control API on http://%s/api/v1", *addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("ERROR: Control API failed: %v", err)
			}
		}()
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	// Watch navigations in a goroutine. The browser outlives the watch so
	// pending cycles can still read the tab.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	errChan := make(chan error, 1)
	go func() {
		errChan <- tab.Watch(watchCtx, func(ctx context.Context, url string) {
			coll.Observe(ctx, url)
		})
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-errChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("ERROR: Watcher stopped: %v", err)
		}
	}

	log.Println("Shutting down gracefully...")
	stopWatch()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("WARN: Control API shutdown: %v", err)
		}
	}

	coll.Wait()
	log.Println("Watcher stopped")
}
