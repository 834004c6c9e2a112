// Package linkedin scrapes employee profile cards from a company's People
// page, behind the credential login gate.
package linkedin

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"business-scraper/browser"
	"business-scraper/config"
	"business-scraper/models"
	"business-scraper/scrape"
	"business-scraper/utils"
)

var companyURLPattern = regexp.MustCompile(`linkedin\.com/company/([^/?]+)`)

type Scraper struct {
	cfg *config.Config
	sel Selectors
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{cfg: cfg, sel: DefaultSelectors()}
}

func NewWithSelectors(cfg *config.Config, sel Selectors) *Scraper {
	return &Scraper{cfg: cfg, sel: sel}
}

// CompanyUsername extracts the company slug from a full LinkedIn URL.
// Anything that is not a URL is assumed to already be the slug.
func CompanyUsername(input string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "http") {
		return input
	}
	m := companyURLPattern.FindStringSubmatch(input)
	if m == nil {
		return input
	}
	return m[1]
}

// ScrapeCompany opens the company's People page, loads every card the
// page will show, and returns the profiles in display order. The caller
// must have logged the session in first.
func (s *Scraper) ScrapeCompany(ctx context.Context, log utils.Request, sess browser.Session, companyInput string) ([]models.Profile, error) {
	username := CompanyUsername(companyInput)
	peopleURL := fmt.Sprintf("https://www.linkedin.com/company/%s/people/", username)

	if err := sess.Open(ctx, peopleURL); err != nil {
		return nil, err
	}

	if err := sess.Wait(ctx, s.sel.ProfileCard); err != nil {
		var se *scrape.SessionError
		if errors.As(err, &se) {
			return nil, err
		}
		// No cards: private page, no listed employees, or a bad slug.
		return nil, &scrape.NotFoundError{Query: companyInput}
	}

	loaded := browser.Paginator{
		ItemSelector: s.sel.ProfileCard,
		LoadMore:     s.sel.ShowMore,
		Delay:        s.cfg.LoadDelay,
		MaxRounds:    s.cfg.MaxLoadRounds,
	}.LoadAll(ctx, sess)
	log.Info("Profile cards visible after loading: %d", loaded)

	html, err := sess.HTML(ctx, "main")
	if err != nil {
		return nil, err
	}
	if html == "" {
		if html, err = sess.HTML(ctx, "body"); err != nil {
			return nil, err
		}
	}

	profiles, stats := ParseProfiles(html, s.sel)
	if len(stats.Misses) > 0 {
		log.Warn("Selector misses for %q: %v (%d/%d cards skipped, %d duplicates)",
			username, stats.Misses, stats.Skipped, stats.Cards, stats.Dupes)
	}

	if s.cfg.LinkedInDeepProfiles {
		s.scrapeDetails(ctx, log, sess, profiles)
	}

	log.Success("Parsed %d profiles for %q", len(profiles), username)
	return profiles, nil
}

// scrapeDetails visits each profile page for location, about and latest
// experience. Best effort per profile: a failed visit leaves the card
// fields as they were.
func (s *Scraper) scrapeDetails(ctx context.Context, log utils.Request, sess browser.Session, profiles []models.Profile) {
	for i := range profiles {
		target := stripQuery(profiles[i].ProfileURL)
		if target == "" {
			continue
		}

		utils.RandomDelay(s.cfg.MinDelay, s.cfg.MaxDelay)
		if err := sess.Open(ctx, target); err != nil {
			log.Warn("Profile visit failed for %s: %v", target, err)
			continue
		}
		if err := sess.Wait(ctx, s.sel.DetailMarker); err != nil {
			log.Warn("Profile page never rendered for %s: %v", target, err)
			continue
		}

		// Expand the truncated about text when the button is present.
		if _, err := sess.Click(ctx, s.sel.AboutSeeMore); err != nil {
			log.Warn("Expanding about section failed for %s: %v", target, err)
		}

		html, err := sess.HTML(ctx, "main")
		if err != nil {
			log.Warn("Capturing profile page failed for %s: %v", target, err)
			continue
		}

		d := ParseProfileDetails(html, s.sel)
		profiles[i].Location = d.Location
		profiles[i].About = d.About
		profiles[i].LatestJobTitle = d.LatestJobTitle
		profiles[i].LatestJobCompany = d.LatestJobCompany
	}
}

func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
