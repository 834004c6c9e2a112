package gmaps

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"business-scraper/models"
)

const unknownDate = "Unknown date"

// Stats counts what the extractor saw, so stale selectors show up in the
// logs as miss counts instead of silently empty results.
type Stats struct {
	Cards   int
	Kept    int
	Skipped int
	Misses  map[string]int
}

func (s *Stats) miss(field string) {
	if s.Misses == nil {
		s.Misses = make(map[string]int)
	}
	s.Misses[field]++
}

// ParseReviews walks the captured container HTML and extracts up to max
// review records in DOM order. Each field is attempted independently: a
// missing date gets a placeholder, but a card without author, rating and
// text is skipped on its own without affecting its siblings. An empty or
// unparsable document yields an empty slice.
func ParseReviews(html string, sel Selectors, max int) ([]models.Review, Stats) {
	var stats Stats

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, stats
	}

	reviews := make([]models.Review, 0)
	doc.Find(sel.ReviewCard).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if max > 0 && len(reviews) >= max {
			return false
		}
		stats.Cards++

		author, okAuthor := firstText(card, sel.Author)
		rating, okRating := firstAttr(card, sel.RatingIcon, "aria-label")
		text, okText := firstText(card, sel.Text)

		if !okAuthor {
			stats.miss("author")
		}
		if !okRating {
			stats.miss("rating")
		}
		if !okText {
			stats.miss("text")
		}
		if !okAuthor || !okRating || !okText {
			stats.Skipped++
			return true
		}

		date, okDate := firstText(card, sel.Date)
		if !okDate {
			stats.miss("date")
			date = unknownDate
		}

		review := models.Review{
			Author: author,
			Rating: rating,
			Text:   text,
			Date:   date,
		}
		if resp := parseOwnerResponse(card, sel); resp != nil {
			review.OwnerResponse = resp
		}

		reviews = append(reviews, review)
		stats.Kept++
		return true
	})

	return reviews, stats
}

func parseOwnerResponse(card *goquery.Selection, sel Selectors) *models.OwnerResponse {
	for _, s := range sel.OwnerResponse {
		node := card.Find(s).First()
		if node.Length() == 0 {
			continue
		}
		text, ok := firstText(node, sel.OwnerResponseText)
		if !ok {
			continue
		}
		date, ok := firstText(node, sel.OwnerResponseDate)
		if !ok {
			date = unknownDate
		}
		return &models.OwnerResponse{Text: text, Date: date}
	}
	return nil
}

// firstText tries each selector in priority order and returns the first
// non-empty trimmed text.
func firstText(root *goquery.Selection, selectors []string) (string, bool) {
	for _, s := range selectors {
		text := strings.TrimSpace(root.Find(s).First().Text())
		if text != "" {
			return text, true
		}
	}
	return "", false
}

func firstAttr(root *goquery.Selection, selector, attr string) (string, bool) {
	val, ok := root.Find(selector).First().Attr(attr)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}
