package browser

import (
	"context"
	"time"

	"business-scraper/utils"
)

// Paginator drives a lazy-loading page until its item count stops growing.
// Each round records the current count, triggers a load (clicking LoadMore
// when the page still shows one, otherwise scrolling), waits Delay for the
// asynchronous injection, and re-measures.
//
// Termination: two consecutive rounds without growth, or MaxRounds.
// Stopping early truncates results; never stopping hammers the site. The
// two-strikes rule plus the hard cap is the compromise. LoadAll never
// returns an error: whatever loaded is what gets extracted.
type Paginator struct {
	// ItemSelector matches the repeating content elements being counted.
	ItemSelector string
	// LoadMore, when non-empty, is a button to click before falling back
	// to scrolling.
	LoadMore string
	// ScrollWithin, when non-empty, scrolls inside that container instead
	// of the window. Feeds with internal scrollbars need this.
	ScrollWithin string
	Delay        time.Duration
	MaxRounds    int
}

// LoadAll mutates the page until content is exhausted and returns the
// final item count.
func (p Paginator) LoadAll(ctx context.Context, sess Session) int {
	last, err := sess.Count(ctx, p.ItemSelector)
	if err != nil {
		utils.Warn("Pagination aborted before first round: %v", err)
		return 0
	}

	stale := 0
	for round := 1; round <= p.MaxRounds; round++ {
		if err := p.trigger(ctx, sess); err != nil {
			utils.Warn("Pagination trigger failed on round %d: %v", round, err)
			return last
		}

		select {
		case <-ctx.Done():
			return last
		case <-time.After(p.Delay):
		}

		n, err := sess.Count(ctx, p.ItemSelector)
		if err != nil {
			utils.Warn("Pagination count failed on round %d: %v", round, err)
			return last
		}

		if n <= last {
			stale++
			if stale >= 2 {
				return n
			}
			continue
		}

		last = n
		stale = 0
	}

	utils.Warn("Pagination hit the %d round cap with content still growing", p.MaxRounds)
	return last
}

func (p Paginator) trigger(ctx context.Context, sess Session) error {
	if p.LoadMore != "" {
		clicked, err := sess.Click(ctx, p.LoadMore)
		if err != nil {
			return err
		}
		if clicked {
			return nil
		}
	}
	if p.ScrollWithin != "" {
		return sess.ScrollElement(ctx, p.ScrollWithin)
	}
	return sess.ScrollToBottom(ctx)
}
