// Package browsertest provides a scripted Session for tests. No browser
// involved: counts, click outcomes and captured HTML are configured up
// front and the fake records what the code under test did with it.
package browsertest

import "context"

type Fake struct {
	// Counts is consumed one value per Count call; the last value repeats
	// once exhausted.
	Counts   []int
	countIdx int

	// Clickable maps selectors to whether a click finds an element.
	Clickable map[string]bool
	// ClickErr maps selectors to the error Click returns for them.
	ClickErr map[string]error
	// Pages maps selectors to the HTML returned for them.
	Pages map[string]string
	// WaitErr maps selectors to the error Wait returns for them.
	WaitErr map[string]error
	// OpenErr maps URLs to the error Open returns for them.
	OpenErr map[string]error

	URL string
	// URLFunc, when set, overrides URL for CurrentURL calls. Lets tests
	// script redirects without racing the code under test.
	URLFunc func() string

	Opened   []string
	Waited   []string
	Clicks   []string
	Scrolls  int
	Typed    map[string]string
	Closed   bool
	CountLog []string
}

func (f *Fake) Open(_ context.Context, url string) error {
	f.Opened = append(f.Opened, url)
	if f.OpenErr != nil {
		if err, ok := f.OpenErr[url]; ok {
			return err
		}
	}
	f.URL = url
	return nil
}

func (f *Fake) Wait(_ context.Context, selector string) error {
	f.Waited = append(f.Waited, selector)
	if f.WaitErr != nil {
		if err, ok := f.WaitErr[selector]; ok {
			return err
		}
	}
	return nil
}

func (f *Fake) Click(_ context.Context, selector string) (bool, error) {
	f.Clicks = append(f.Clicks, selector)
	if f.ClickErr != nil {
		if err, ok := f.ClickErr[selector]; ok {
			return false, err
		}
	}
	return f.Clickable[selector], nil
}

func (f *Fake) ScrollToBottom(_ context.Context) error {
	f.Scrolls++
	return nil
}

func (f *Fake) ScrollElement(_ context.Context, _ string) error {
	f.Scrolls++
	return nil
}

func (f *Fake) SendKeys(_ context.Context, selector, text string) error {
	if f.Typed == nil {
		f.Typed = make(map[string]string)
	}
	f.Typed[selector] += text
	return nil
}

func (f *Fake) Count(_ context.Context, selector string) (int, error) {
	f.CountLog = append(f.CountLog, selector)
	if len(f.Counts) == 0 {
		return 0, nil
	}
	if f.countIdx >= len(f.Counts) {
		return f.Counts[len(f.Counts)-1], nil
	}
	n := f.Counts[f.countIdx]
	f.countIdx++
	return n, nil
}

func (f *Fake) HTML(_ context.Context, selector string) (string, error) {
	return f.Pages[selector], nil
}

func (f *Fake) CurrentURL(_ context.Context) (string, error) {
	if f.URLFunc != nil {
		return f.URLFunc(), nil
	}
	return f.URL, nil
}

func (f *Fake) Close() {
	f.Closed = true
}
