// Package collector runs the collection pipeline in response to page
// navigation: classify, wait for the page to settle, extract, dedupe, merge.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/songlog/collection"
	"github.com/pevans/songlog/extract"
	"github.com/pevans/songlog/page"
	"github.com/pevans/songlog/song"
)

// ErrNoSource is returned when the collector has no page to read.
var ErrNoSource = errors.New("no page source attached")

// SnapshotSource provides the page as it is right now.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*page.Snapshot, error)
}

// Phase is where the collector is in its cycle.
type Phase int

const (
	Idle Phase = iota
	Extracting
)

func (p Phase) String() string {
	if p == Extracting {
		return "extracting"
	}
	return "idle"
}

// State is the collector's orchestration state.
type State struct {
	Enabled     bool
	LastSeenURL string
	Phase       Phase
}

// Config holds configuration for the collector.
type Config struct {
	// Wait between a navigation and extraction, so asynchronously rendered
	// content can populate. Zero or less runs the cycle inline.
	SettleDelay time.Duration
	// Clock used to stamp captured songs
	Now func() time.Time
}

// DefaultConfig returns the default collector configuration.
func DefaultConfig() *Config {
	return &Config{
		SettleDelay: 2 * time.Second,
		Now:         time.Now,
	}
}

// ToggleResponse answers a toggle control message.
type ToggleResponse struct {
	Success bool `json:"success"`
}

// ExtractResponse answers an extract-now control message. Count is the size
// of the raw extracted batch, before dedupe and merge.
type ExtractResponse struct {
	Count int `json:"count"`
}

// Collector owns the pipeline state and schedules extraction cycles.
type Collector struct {
	source SnapshotSource
	merger *collection.Merger
	config *Config

	mu       sync.Mutex
	state    State
	inFlight int
	wg       sync.WaitGroup
}

// New creates a collector. Collection starts enabled.
func New(source SnapshotSource, merger *collection.Merger, config *Config) *Collector {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Collector{
		source: source,
		merger: merger,
		config: config,
		state:  State{Enabled: true, Phase: Idle},
	}
}

// State returns a copy of the current state.
func (c *Collector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Toggle turns collection on or off for future navigations.
func (c *Collector) Toggle(enabled bool) ToggleResponse {
	c.mu.Lock()
	c.state.Enabled = enabled
	c.mu.Unlock()

	log.Printf("INFO: Collection enabled: %t", enabled)
	return ToggleResponse{Success: true}
}

// Observe is called whenever the watcher sees the location. It starts a
// cycle only when the URL differs from the last one seen, and reports
// whether it did.
func (c *Collector) Observe(ctx context.Context, url string) bool {
	c.mu.Lock()
	if url == c.state.LastSeenURL {
		c.mu.Unlock()
		return false
	}
	c.state.LastSeenURL = url
	c.mu.Unlock()

	c.OnNavigationSettled(ctx, page.NewSnapshot(url, ""))
	return true
}

// OnNavigationSettled starts a collection cycle for the page in snap. The
// page is classified now, but the DOM is read only after the settle delay,
// from a fresh snapshot. A navigation during the delay starts a second,
// independent cycle. Nothing happens while collection is disabled.
func (c *Collector) OnNavigationSettled(ctx context.Context, snap *page.Snapshot) {
	c.mu.Lock()
	if !c.state.Enabled {
		c.mu.Unlock()
		return
	}
	c.inFlight++
	c.state.Phase = Extracting
	c.wg.Add(1)
	c.mu.Unlock()

	typ := snap.Type()
	log.Printf("INFO: YouTube Music page detected: %s", typ)

	run := func() {
		defer c.wg.Done()
		defer c.finish()

		cycleID := uuid.New()
		if _, err := c.cycle(context.WithoutCancel(ctx), cycleID, typ); err != nil {
			log.Printf("ERROR: Collection cycle %s failed: %v", cycleID, err)
		}
	}

	if c.config.SettleDelay <= 0 {
		run()
		return
	}
	time.AfterFunc(c.config.SettleDelay, run)
}

// ExtractNow runs one extraction pass against the current page right away,
// using the mode for the page's classification. It runs even when
// collection is disabled.
func (c *Collector) ExtractNow(ctx context.Context) (ExtractResponse, error) {
	if c.source == nil {
		return ExtractResponse{}, ErrNoSource
	}

	snap, err := c.source.Snapshot(ctx)
	if err != nil {
		return ExtractResponse{}, fmt.Errorf("failed to read page: %w", err)
	}

	count, err := c.process(ctx, uuid.New(), snap.Type(), snap)
	if err != nil {
		return ExtractResponse{}, err
	}

	return ExtractResponse{Count: count}, nil
}

// Wait blocks until every scheduled cycle has finished.
func (c *Collector) Wait() {
	c.wg.Wait()
}

func (c *Collector) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight--
	if c.inFlight == 0 {
		c.state.Phase = Idle
	}
}

// cycle reads the page and runs it through the pipeline with the mode
// picked when the navigation was seen.
func (c *Collector) cycle(ctx context.Context, cycleID uuid.UUID, typ song.PageType) (int, error) {
	if c.source == nil {
		return 0, ErrNoSource
	}

	snap, err := c.source.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read page: %w", err)
	}
	return c.process(ctx, cycleID, typ, snap)
}

// process extracts, dedupes, and merges. It returns the raw batch size.
func (c *Collector) process(ctx context.Context, cycleID uuid.UUID, typ song.PageType, snap *page.Snapshot) (int, error) {
	songs, err := extract.Page(typ, snap, c.config.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to extract songs: %w", err)
	}
	if len(songs) == 0 {
		return 0, nil
	}

	batch := collection.Dedupe(songs)
	result, err := c.merger.Merge(ctx, batch)
	if err != nil {
		return len(songs), err
	}

	log.Printf("INFO: Cycle %s on %s: %d extracted, %d unique, %d new",
		cycleID, typ, len(songs), len(batch), result.Appended)

	return len(songs), nil
}
