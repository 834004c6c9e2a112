// Package browser owns the browser side of scraping: launching Chrome,
// handing out per-request sessions, and the pagination loop that drives
// lazy-loaded pages. Scrapers only see the Session capability set, so
// tests can substitute a scripted fake.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"business-scraper/config"
	"business-scraper/scrape"
	"business-scraper/utils"
)

// Session is the capability set the scrapers depend on. One session maps
// to one browser tab; navigations mutate its current page.
type Session interface {
	// Open navigates to url and returns once the DOM load event fires.
	Open(ctx context.Context, url string) error
	// Wait blocks until selector is visible or the wait timeout passes.
	Wait(ctx context.Context, selector string) error
	// Click clicks the first element matching selector. The bool reports
	// whether such an element existed.
	Click(ctx context.Context, selector string) (bool, error)
	// ScrollToBottom scrolls the window to the document bottom.
	ScrollToBottom(ctx context.Context) error
	// ScrollElement scrolls the element matching selector to its own
	// bottom, for feeds with internal scrollbars. Missing element is a
	// no-op.
	ScrollElement(ctx context.Context, selector string) error
	// SendKeys types text into the element matching selector.
	SendKeys(ctx context.Context, selector, text string) error
	// Count returns the number of elements matching selector.
	Count(ctx context.Context, selector string) (int, error)
	// HTML returns the outer HTML of the first element matching selector,
	// or "" when absent.
	HTML(ctx context.Context, selector string) (string, error)
	// CurrentURL returns the tab's current location.
	CurrentURL(ctx context.Context) (string, error)
	Close()
}

// Launcher holds the shared Chrome allocator. Sessions are cheap tabs off
// it; the allocator itself lives for the process.
type Launcher struct {
	cfg         *config.Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewLauncher(cfg *config.Config) *Launcher {
	utils.Info("Preparing Chrome allocator (headless=%v)", cfg.Headless)
	allocCtx, allocCancel := chromedp.NewExecAllocator(
		context.Background(),
		utils.StealthOpts(cfg.Headless)...,
	)
	return &Launcher{cfg: cfg, allocCtx: allocCtx, allocCancel: allocCancel}
}

func (l *Launcher) Close() {
	utils.Info("Shutting down Chrome allocator")
	l.allocCancel()
}

// NewSession opens a fresh tab and starts the browser if it is not running
// yet. A failure here means Chrome could not launch at all.
func (l *Launcher) NewSession() (Session, error) {
	tabCtx, tabCancel := chromedp.NewContext(l.allocCtx)

	startCtx, cancel := context.WithTimeout(tabCtx, l.cfg.NavTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &chromeSession{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		navTimeout:  l.cfg.NavTimeout,
		waitTimeout: l.cfg.WaitTimeout,
	}, nil
}

type chromeSession struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	navTimeout  time.Duration
	waitTimeout time.Duration
}

// run executes actions against the tab with a bounded timeout, honouring
// cancellation of the caller's request context. Only errors on a dead tab
// are promoted to SessionError; an expired caller context stays an
// entity-scoped failure, the tab may still be healthy.
func (s *chromeSession) run(parent context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := parent.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(parent, cancel)
	defer stop()

	err := chromedp.Run(ctx, actions...)
	if err != nil && s.tabCtx.Err() != nil {
		return &scrape.SessionError{Err: err}
	}
	return err
}

func (s *chromeSession) Open(ctx context.Context, url string) error {
	err := s.run(ctx, s.navTimeout,
		chromedp.Navigate(url),
		utils.HideWebDriver(),
	)
	if err != nil {
		var se *scrape.SessionError
		if errors.As(err, &se) {
			return err
		}
		return &scrape.NavigationError{URL: url, Err: err}
	}
	return nil
}

func (s *chromeSession) Wait(ctx context.Context, selector string) error {
	return s.run(ctx, s.waitTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
	)
}

func (s *chromeSession) Click(ctx context.Context, selector string) (bool, error) {
	var clicked bool
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		el.click();
		return true;
	})()`, selector)
	err := s.run(ctx, s.navTimeout, chromedp.Evaluate(script, &clicked))
	return clicked, err
}

func (s *chromeSession) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, s.navTimeout,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
	)
}

func (s *chromeSession) ScrollElement(ctx context.Context, selector string) error {
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (el) el.scrollTop = el.scrollHeight;
	})()`, selector)
	return s.run(ctx, s.navTimeout, chromedp.Evaluate(script, nil))
}

func (s *chromeSession) SendKeys(ctx context.Context, selector, text string) error {
	return s.run(ctx, s.waitTimeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
}

func (s *chromeSession) Count(ctx context.Context, selector string) (int, error) {
	var n int
	script := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	err := s.run(ctx, s.navTimeout, chromedp.Evaluate(script, &n))
	return n, err
}

func (s *chromeSession) HTML(ctx context.Context, selector string) (string, error) {
	var html string
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		return el ? el.outerHTML : '';
	})()`, selector)
	err := s.run(ctx, s.navTimeout, chromedp.Evaluate(script, &html))
	return html, err
}

func (s *chromeSession) CurrentURL(ctx context.Context) (string, error) {
	var u string
	err := s.run(ctx, s.navTimeout, chromedp.Location(&u))
	return u, err
}

func (s *chromeSession) Close() {
	s.tabCancel()
}
