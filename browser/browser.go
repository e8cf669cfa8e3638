// Package browser drives a Chrome tab on YouTube Music. It reports
// in-app navigations and serves snapshots of the live DOM.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/pevans/songlog/page"
)

// DefaultStartURL is where a new tab is opened.
const DefaultStartURL = "https://music.youtube.com/"

// Config controls how the browser is launched.
type Config struct {
	StartURL        string
	Headless        bool
	Stealth         bool
	NavigateTimeout time.Duration
	// Optional path to a Chrome profile so the tab is signed in
	UserDataDir string
}

// DefaultConfig returns the default browser configuration.
func DefaultConfig() *Config {
	return &Config{
		StartURL:        DefaultStartURL,
		Headless:        false,
		Stealth:         true,
		NavigateTimeout: 30 * time.Second,
	}
}

// Tab is one browser tab on YouTube Music.
type Tab struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
}

// Open launches Chrome, opens a tab, and navigates it to the start URL.
func Open(ctx context.Context, cfg *Config) (*Tab, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	l := launcher.New().Context(ctx).Headless(cfg.Headless)
	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	var p *rod.Page
	if cfg.Stealth {
		p, err = stealth.Page(b)
	} else {
		p, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to create tab: %w", err)
	}

	tab := &Tab{browser: b, launcher: l, page: p}

	navCtx, cancel := context.WithTimeout(ctx, cfg.NavigateTimeout)
	defer cancel()

	if err := p.Context(navCtx).Navigate(cfg.StartURL); err != nil {
		tab.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", cfg.StartURL, err)
	}
	if err := p.Context(navCtx).WaitLoad(); err != nil {
		log.Printf("WARN: Timed out waiting for %s to load: %v", cfg.StartURL, err)
	}

	return tab, nil
}

const snapshotJS = `() => JSON.stringify({
	url: location.href,
	html: document.documentElement.outerHTML
})`

// Snapshot reads the tab's current location and DOM in one evaluation so
// the two always agree.
func (t *Tab) Snapshot(ctx context.Context) (*page.Snapshot, error) {
	res, err := t.page.Context(ctx).Eval(snapshotJS)
	if err != nil {
		return nil, fmt.Errorf("failed to read DOM: %w", err)
	}

	return decodeSnapshot(res.Value.Str())
}

func decodeSnapshot(payload string) (*page.Snapshot, error) {
	var raw struct {
		URL  string `json:"url"`
		HTML string `json:"html"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return page.NewSnapshot(raw.URL, raw.HTML), nil
}

// URL returns the tab's current location.
func (t *Tab) URL() (string, error) {
	info, err := t.page.Info()
	if err != nil {
		return "", fmt.Errorf("failed to read tab info: %w", err)
	}
	return info.URL, nil
}

// Watch calls onNavigate with the new location every time the main frame
// navigates, including history.pushState navigations inside the app. It
// reports the starting location first and blocks until ctx is done.
func (t *Tab) Watch(ctx context.Context, onNavigate func(ctx context.Context, url string)) error {
	current, err := t.URL()
	if err != nil {
		return err
	}
	onNavigate(ctx, current)

	wait := t.page.Context(ctx).EachEvent(
		func(e *proto.PageFrameNavigated) {
			if e.Frame.ParentID != "" {
				return
			}
			onNavigate(ctx, frameURL(e.Frame))
		},
		func(e *proto.PageNavigatedWithinDocument) {
			if e.FrameID != t.page.FrameID {
				return
			}
			onNavigate(ctx, e.URL)
		},
	)
	wait()

	return ctx.Err()
}

// frameURL rebuilds the full location of a frame, fragment included.
func frameURL(f *proto.PageFrame) string {
	if f.URLFragment == "" {
		return f.URL
	}
	return f.URL + f.URLFragment
}

// Close closes the tab and shuts the browser down.
func (t *Tab) Close() error {
	var firstErr error
	if t.page != nil {
		if err := t.page.Close(); err != nil {
			firstErr = err
		}
	}
	if t.browser != nil {
		if err := t.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if t.launcher != nil {
		t.launcher.Kill()
	}
	return firstErr
}
