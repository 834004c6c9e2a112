package linkedin

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"business-scraper/models"
)

// Stats mirrors the extractor observability used for reviews: selector
// misses are counted so stale markup shows up in logs.
type Stats struct {
	Cards   int
	Kept    int
	Skipped int
	Dupes   int
	Misses  map[string]int
}

func (s *Stats) miss(field string) {
	if s.Misses == nil {
		s.Misses = make(map[string]int)
	}
	s.Misses[field]++
}

// ParseProfiles extracts employee cards from the captured People page
// HTML in DOM order. Name and profile URL are mandatory; a card missing
// either is skipped alone. Duplicate (name, subtitle) pairs collapse to
// their first appearance, since lazy loading re-renders earlier cards.
func ParseProfiles(html string, sel Selectors) ([]models.Profile, Stats) {
	var stats Stats

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, stats
	}

	seen := make(map[[2]string]struct{})
	profiles := make([]models.Profile, 0)

	doc.Find(sel.ProfileCard).Each(func(_ int, card *goquery.Selection) {
		stats.Cards++

		link := card.Find(sel.CardLink).First()
		href, _ := link.Attr("href")
		href = strings.TrimSpace(href)

		name := strings.TrimSpace(link.Find(sel.CardName).First().Text())
		if name == "" {
			// Some card variants put the name directly in the anchor.
			name = strings.TrimSpace(link.Text())
		}

		if href == "" {
			stats.miss("profile_url")
		}
		if name == "" {
			stats.miss("name")
		}
		if href == "" || name == "" {
			stats.Skipped++
			return
		}

		subtitle := strings.TrimSpace(card.Find(sel.CardSubtitle).First().Text())
		if subtitle == "" {
			stats.miss("subtitle")
		}

		key := [2]string{name, subtitle}
		if _, dup := seen[key]; dup {
			stats.Dupes++
			return
		}
		seen[key] = struct{}{}

		profiles = append(profiles, models.Profile{
			Name:       name,
			Subtitle:   subtitle,
			ProfileURL: href,
		})
		stats.Kept++
	})

	return profiles, stats
}

// Details holds the optional fields scraped from an individual profile
// page. Empty strings mean the section was absent or the selector missed.
type Details struct {
	Location         string
	About            string
	LatestJobTitle   string
	LatestJobCompany string
}

// ParseProfileDetails pulls location, about and the most recent experience
// entry out of a profile page. Every field is independent; a missing
// section never fails the record.
func ParseProfileDetails(html string, sel Selectors) Details {
	var d Details

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return d
	}

	for _, s := range sel.DetailLocation {
		if text := strings.TrimSpace(doc.Find(s).First().Text()); text != "" {
			d.Location = text
			break
		}
	}

	for _, s := range sel.DetailAbout {
		if text := strings.TrimSpace(doc.Find(s).First().Text()); text != "" {
			d.About = text
			break
		}
	}

	latest := doc.Find(sel.ExperienceItem).First()
	if latest.Length() > 0 {
		for _, s := range sel.JobTitle {
			if text := strings.TrimSpace(latest.Find(s).First().Text()); text != "" {
				d.LatestJobTitle = text
				break
			}
		}
		for _, s := range sel.JobCompany {
			text := strings.TrimSpace(latest.Find(s).First().Text())
			if text != "" && text != d.LatestJobTitle {
				d.LatestJobCompany = text
				break
			}
		}
	}

	return d
}
