// Package scrape defines the error taxonomy shared by the site scrapers
// and the batch runner. NotFound and Navigation errors stay inside one
// entity's result; a SessionError means the browser itself is gone and the
// rest of the batch cannot proceed.
package scrape

import "fmt"

// NotFoundError: the search produced no usable match for the query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no results found for %q", e.Query)
}

// NavigationError: a page did not reach its expected marker within the
// timeout.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// SessionError: the browser session became unusable. Fatal for the
// remainder of a batch.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("browser session unusable: %v", e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
