package gmaps

// Selectors for the Google Maps search and review views. These WILL break
// when Google changes their markup. They are data, not logic, so updating
// them never touches the extraction code. Fields holding slices are tried
// in priority order; single strings may be CSS selector groups.
type Selectors struct {
	// ConsentButton dismisses the cookie wall shown in some regions.
	ConsentButton string
	// Feed is the scrollable container holding result cards or reviews.
	Feed string
	// FeedFallback is waited on when Feed never shows up.
	FeedFallback string
	// ResultLink matches the place links on a search results feed.
	ResultLink string
	// ReviewsTab switches a place page to its reviews view.
	ReviewsTab string
	// ReviewCard matches one review.
	ReviewCard string
	// MoreReviews is the "More reviews" affordance, when present.
	MoreReviews string

	Author []string
	// RatingIcon carries the free-form rating in its aria-label.
	RatingIcon string
	Text       []string
	Date       []string

	OwnerResponse     []string
	OwnerResponseText []string
	OwnerResponseDate []string
}

func DefaultSelectors() Selectors {
	return Selectors{
		ConsentButton: `button[aria-label="Accept all"], button[aria-label="I agree"], button.VfPpkd-LgbsSe-OWXEXe-k8QpJ`,
		Feed:          `div[role="feed"]`,
		FeedFallback:  `div[data-review-id]`,
		ResultLink:    `a.hfpxzc`,
		ReviewsTab:    `button[data-tab-index="1"], button[aria-label*="Reviews"], button[jsaction*="reviews"]`,
		ReviewCard:    `div[role="article"]`,
		MoreReviews:   `button[jsaction*="more-reviews"], button[aria-label*="More reviews"]`,

		Author:     []string{`div.d4r55`, `div[class*="author"]`},
		RatingIcon: `span[role="img"]`,
		Text:       []string{`span.wiI7pd`, `div[class*="review-text"]`},
		Date:       []string{`span.rsqaWe`, `span[class*="date"]`},

		OwnerResponse:     []string{`div[class*="owner-response"]`, `div[class*="response"]`, `div[class*="reply"]`},
		OwnerResponseText: []string{`div[class*="text"]`, `div[class*="content"]`, `span`},
		OwnerResponseDate: []string{`span[class*="date"]`, `span[class*="time"]`},
	}
}
