package linkedin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"business-scraper/browser"
	"business-scraper/utils"
)

const (
	loginURL      = "https://www.linkedin.com/login"
	feedURLMarker = "linkedin.com/feed"
)

// Login performs the credential form fill and waits for the session to
// land on the feed. It is the precondition gate for the profile-scraping
// path; MFA and CAPTCHA challenges surface as a timeout here.
func (s *Scraper) Login(ctx context.Context, log utils.Request, sess browser.Session, email, password string) error {
	if err := sess.Open(ctx, loginURL); err != nil {
		return fmt.Errorf("login page: %w", err)
	}

	if current, err := sess.CurrentURL(ctx); err == nil && strings.Contains(current, feedURLMarker) {
		log.Info("Session already logged in")
		return nil
	}

	if err := sess.Wait(ctx, s.sel.LoginEmail); err != nil {
		return fmt.Errorf("login form never rendered: %w", err)
	}

	if err := sess.SendKeys(ctx, s.sel.LoginEmail, email); err != nil {
		return fmt.Errorf("typing email: %w", err)
	}
	utils.RandomDelay(s.cfg.MinDelay/2, s.cfg.MaxDelay/2)
	if err := sess.SendKeys(ctx, s.sel.LoginPassword, password); err != nil {
		return fmt.Errorf("typing password: %w", err)
	}

	if _, err := sess.Click(ctx, s.sel.LoginSubmit); err != nil {
		return fmt.Errorf("submitting login: %w", err)
	}

	if err := s.waitForFeed(ctx, sess); err != nil {
		return err
	}

	log.Success("Logged in to LinkedIn")
	return nil
}

// waitForFeed polls the tab location until it reaches the feed or the wait
// timeout passes. Login is redirect-driven, so there is no single element
// to wait on.
func (s *Scraper) waitForFeed(ctx context.Context, sess browser.Session) error {
	deadline := time.Now().Add(s.cfg.WaitTimeout)
	for time.Now().Before(deadline) {
		current, err := sess.CurrentURL(ctx)
		if err != nil {
			return err
		}
		if strings.Contains(current, feedURLMarker) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("login did not reach the feed within %v, a checkpoint or CAPTCHA may need manual attention", s.cfg.WaitTimeout)
}
