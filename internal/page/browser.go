package page

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserSource keeps the page open in a headless Chrome and serializes its
// live DOM on every fetch, so client-side mutations show up between polls.
type BrowserSource struct {
	url        string
	headless   bool
	controlURL string
	navTimeout time.Duration
	log        *slog.Logger

	mu      sync.Mutex
	browser *rod.Browser
	page    *rod.Page
}

// BrowserOption configures a BrowserSource.
type BrowserOption func(*BrowserSource)

// WithHeadless toggles headless mode for a launched browser.
func WithHeadless(h bool) BrowserOption {
	return func(s *BrowserSource) {
		s.headless = h
	}
}

// WithControlURL attaches to an already running browser instead of
// launching one.
func WithControlURL(u string) BrowserOption {
	return func(s *BrowserSource) {
		s.controlURL = u
	}
}

// WithNavigationTimeout bounds the initial page load.
func WithNavigationTimeout(d time.Duration) BrowserOption {
	return func(s *BrowserSource) {
		s.navTimeout = d
	}
}

// WithBrowserLogger sets the logger.
func WithBrowserLogger(l *slog.Logger) BrowserOption {
	return func(s *BrowserSource) {
		s.log = l
	}
}

// NewBrowserSource creates a BrowserSource for url. The browser starts
// lazily on the first fetch.
func NewBrowserSource(url string, opts ...BrowserOption) *BrowserSource {
	s := &BrowserSource{
		url:        url,
		headless:   true,
		navTimeout: 30 * time.Second,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch implements Source.
func (s *BrowserSource) Fetch(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensurePage(ctx); err != nil {
		return nil, err
	}

	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		// The tab may have crashed or been closed; reopen on the next fetch.
		s.closePage()
		return nil, fmt.Errorf("serializing page: %w", err)
	}

	return &Snapshot{URL: s.url, HTML: []byte(html), FetchedAt: time.Now()}, nil
}

// Close shuts down the page and, if it was launched here, the browser.
func (s *BrowserSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closePage()
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	if err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}

func (s *BrowserSource) ensurePage(ctx context.Context) error {
	if s.page != nil {
		return nil
	}

	if s.browser == nil {
		controlURL := s.controlURL
		if controlURL == "" {
			u, err := launcher.New().Headless(s.headless).Launch()
			if err != nil {
				return fmt.Errorf("launching browser: %w", err)
			}
			controlURL = u
		}

		b := rod.New().ControlURL(controlURL)
		if err := b.Connect(); err != nil {
			return fmt.Errorf("connecting to browser: %w", err)
		}
		s.browser = b
		s.log.Info("browser connected", "headless", s.headless)
	}

	p, err := s.browser.Page(proto.TargetCreateTarget{URL: s.url})
	if err != nil {
		return fmt.Errorf("opening page: %w", err)
	}
	if err := p.Context(ctx).Timeout(s.navTimeout).WaitLoad(); err != nil {
		_ = p.Close()
		return fmt.Errorf("loading page: %w", err)
	}
	s.page = p
	return nil
}

func (s *BrowserSource) closePage() {
	if s.page == nil {
		return
	}
	if err := s.page.Close(); err != nil {
		s.log.Debug("closing page", "error", err)
	}
	s.page = nil
}
