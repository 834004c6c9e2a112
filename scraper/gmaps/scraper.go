// Package gmaps scrapes publicly displayed Google Maps reviews for a
// business. Resolution goes through the Maps search page; extraction works
// on the captured feed HTML.
package gmaps

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"business-scraper/browser"
	"business-scraper/cache"
	"business-scraper/config"
	"business-scraper/models"
	"business-scraper/scrape"
	"business-scraper/utils"
)

const searchBaseURL = "https://www.google.com/maps/search/"

type Scraper struct {
	cfg      *config.Config
	sel      Selectors
	resolved cache.ResolverCache
}

func New(cfg *config.Config, resolved cache.ResolverCache) *Scraper {
	return &Scraper{cfg: cfg, sel: DefaultSelectors(), resolved: resolved}
}

// NewWithSelectors is the seam for tests and for selector hotfixes without
// code changes.
func NewWithSelectors(cfg *config.Config, resolved cache.ResolverCache, sel Selectors) *Scraper {
	return &Scraper{cfg: cfg, sel: sel, resolved: resolved}
}

// ScrapeReviews locates businessName on Maps, loads all reviews the page
// will give up, and returns them in display order.
func (s *Scraper) ScrapeReviews(ctx context.Context, log utils.Request, sess browser.Session, businessName string) ([]models.Review, error) {
	detailURL, err := s.resolveCached(ctx, log, sess, businessName)
	if err != nil {
		return nil, err
	}

	if err := s.openDetail(ctx, sess, detailURL); err != nil {
		return nil, err
	}

	// Switch to the reviews view when the place page starts on overview.
	// Already-selected tabs and single-column layouts make this a best
	// effort: a failed click still leaves a page worth extracting from.
	if clicked, err := sess.Click(ctx, s.sel.ReviewsTab); err != nil {
		if isSession(err) {
			return nil, err
		}
		log.Warn("Reviews tab click failed for %q: %v", businessName, err)
	} else if clicked {
		utils.RandomDelay(s.cfg.MinDelay, s.cfg.MaxDelay)
	}

	loaded := browser.Paginator{
		ItemSelector: s.sel.ReviewCard,
		LoadMore:     s.sel.MoreReviews,
		ScrollWithin: s.sel.Feed,
		Delay:        s.cfg.LoadDelay,
		MaxRounds:    s.cfg.MaxLoadRounds,
	}.LoadAll(ctx, sess)
	log.Info("Review cards visible after loading: %d", loaded)

	html, err := sess.HTML(ctx, s.sel.Feed)
	if err != nil {
		return nil, err
	}
	if html == "" {
		// Stale feed selector or an alternative layout; fall back to the
		// whole document rather than reporting nothing.
		if html, err = sess.HTML(ctx, "body"); err != nil {
			return nil, err
		}
	}

	reviews, stats := ParseReviews(html, s.sel, s.cfg.MaxReviews)
	if len(stats.Misses) > 0 {
		log.Warn("Selector misses for %q: %v (%d/%d cards skipped)",
			businessName, stats.Misses, stats.Skipped, stats.Cards)
	}
	log.Success("Parsed %d reviews for %q", len(reviews), businessName)
	return reviews, nil
}

// resolveCached consults the resolver cache before doing a live search.
// Cache trouble is a miss, never a failure.
func (s *Scraper) resolveCached(ctx context.Context, log utils.Request, sess browser.Session, businessName string) (string, error) {
	key := cache.Key(businessName)
	if cached, ok, err := s.resolved.Get(ctx, key); err != nil {
		log.Warn("Resolver cache get failed: %v", err)
	} else if ok {
		log.Info("Resolver cache hit for %q", businessName)
		return cached, nil
	}

	detailURL, err := s.resolve(ctx, sess, businessName)
	if err != nil {
		return "", err
	}

	if err := s.resolved.Set(ctx, key, detailURL); err != nil {
		log.Warn("Resolver cache set failed: %v", err)
	}
	return detailURL, nil
}

// resolve submits the search and picks the result entity to scrape. Maps
// either answers with a results feed, where the first entry whose label
// matches the query (case-insensitive substring, first in render order
// wins) is chosen, or jumps straight to the single matching place.
func (s *Scraper) resolve(ctx context.Context, sess browser.Session, businessName string) (string, error) {
	searchURL := searchBaseURL + url.QueryEscape(businessName)
	if err := sess.Open(ctx, searchURL); err != nil {
		return "", err
	}

	// Cookie wall first; the feed never renders behind it.
	if _, err := sess.Click(ctx, s.sel.ConsentButton); err != nil {
		return "", err
	}

	if err := sess.Wait(ctx, s.sel.Feed); err != nil {
		if isSession(err) {
			return "", err
		}
		if err := sess.Wait(ctx, s.sel.FeedFallback); err != nil {
			if isSession(err) {
				return "", err
			}
			return "", &scrape.NotFoundError{Query: businessName}
		}
	}

	feedHTML, err := sess.HTML(ctx, s.sel.Feed)
	if err != nil {
		return "", err
	}

	if target := pickResult(feedHTML, s.sel.ResultLink, businessName); target != "" {
		return target, nil
	}

	// No result links means the search landed directly on the place page.
	current, err := sess.CurrentURL(ctx)
	if err != nil {
		return "", err
	}
	if current == "" {
		return "", &scrape.NotFoundError{Query: businessName}
	}
	return current, nil
}

// pickResult applies the matching policy over the rendered result links:
// first link whose aria-label contains the query case-insensitively, else
// the first link at all. The site owns the ranking; we only pick
// deterministically from what it returned.
func pickResult(feedHTML, linkSelector, query string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(feedHTML))
	if err != nil {
		return ""
	}

	folded := strings.ToLower(strings.TrimSpace(query))
	var first, matched string
	doc.Find(linkSelector).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}
		if first == "" {
			first = href
		}
		label, _ := link.Attr("aria-label")
		if strings.Contains(strings.ToLower(label), folded) {
			matched = href
			return false
		}
		return true
	})

	if matched != "" {
		return matched
	}
	return first
}

// openDetail navigates to the resolved detail view, retrying transient
// navigation failures, and verifies the review container renders. A dead
// session is not worth retrying.
func (s *Scraper) openDetail(ctx context.Context, sess browser.Session, detailURL string) error {
	var fatal error
	err := utils.Retry(ctx, s.cfg.MaxRetries, func() error {
		attemptErr := s.openDetailOnce(ctx, sess, detailURL)
		if isSession(attemptErr) {
			fatal = attemptErr
			return nil
		}
		return attemptErr
	})
	if fatal != nil {
		return fatal
	}
	return err
}

func (s *Scraper) openDetailOnce(ctx context.Context, sess browser.Session, detailURL string) error {
	if err := sess.Open(ctx, detailURL); err != nil {
		return err
	}
	if _, err := sess.Click(ctx, s.sel.ConsentButton); err != nil {
		return err
	}
	if err := sess.Wait(ctx, s.sel.Feed); err != nil {
		if isSession(err) {
			return err
		}
		if err := sess.Wait(ctx, s.sel.FeedFallback); err != nil {
			if isSession(err) {
				return err
			}
			return &scrape.NavigationError{URL: detailURL, Err: fmt.Errorf("review container never rendered")}
		}
	}
	return nil
}

func isSession(err error) bool {
	var se *scrape.SessionError
	return errors.As(err, &se)
}
