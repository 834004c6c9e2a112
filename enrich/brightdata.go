// Package enrich submits LinkedIn profile URLs to the Bright Data
// dataset API for asynchronous enrichment. The API collects full
// profile data out of band; callers poll Bright Data with the returned
// snapshot id.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"business-scraper/config"
)

type Client struct {
	http    *resty.Client
	dataset string
}

type triggerItem struct {
	URL string `json:"url"`
}

type triggerResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

func NewClient(cfg *config.Config) *Client {
	c := resty.New().
		SetBaseURL(cfg.BrightDataURL).
		SetAuthToken(cfg.BrightDataKey).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)

	return &Client{http: c, dataset: cfg.BrightDataSet}
}

// Enabled reports whether an auth token was configured.
func (c *Client) Enabled() bool {
	return c.http.Token != ""
}

// Trigger submits profile URLs for collection and returns the snapshot
// id. Query strings are stripped from the URLs so the dataset receives
// canonical profile links.
func (c *Client) Trigger(ctx context.Context, urls []string) (string, error) {
	items := make([]triggerItem, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if i := strings.IndexByte(u, '?'); i >= 0 {
			u = u[:i]
		}
		items = append(items, triggerItem{URL: u})
	}
	if len(items) == 0 {
		return "", fmt.Errorf("no profile urls to submit")
	}

	var out triggerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"dataset_id":     c.dataset,
			"include_errors": "true",
		}).
		SetBody(items).
		SetResult(&out).
		Post("")
	if err != nil {
		return "", fmt.Errorf("trigger dataset: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("trigger dataset: status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.SnapshotID == "" {
		return "", fmt.Errorf("trigger dataset: response missing snapshot_id")
	}
	return out.SnapshotID, nil
}
