package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-scraper/browser"
	"business-scraper/browser/browsertest"
	"business-scraper/config"
	"business-scraper/models"
	"business-scraper/scrape"
	"business-scraper/utils"
)

type stubSessions struct {
	err error
}

func (s stubSessions) NewSession() (browser.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &browsertest.Fake{}, nil
}

type stubGmaps struct {
	fn func(name string) ([]models.Review, error)
}

func (s stubGmaps) ScrapeReviews(_ context.Context, _ utils.Request, _ browser.Session, name string) ([]models.Review, error) {
	return s.fn(name)
}

type stubLinkedIn struct {
	loginErr error
	fn       func(company string) ([]models.Profile, error)
}

func (s stubLinkedIn) Login(context.Context, utils.Request, browser.Session, string, string) error {
	return s.loginErr
}

func (s stubLinkedIn) ScrapeCompany(_ context.Context, _ utils.Request, _ browser.Session, company string) ([]models.Profile, error) {
	return s.fn(company)
}

type stubEnricher struct {
	enabled  bool
	snapshot string
	err      error
	got      []string
}

func (s *stubEnricher) Enabled() bool { return s.enabled }

func (s *stubEnricher) Trigger(_ context.Context, urls []string) (string, error) {
	s.got = urls
	return s.snapshot, s.err
}

func newTestServer(gmaps ReviewScraper, linkedin ProfileScraper, enricher Enricher) *Server {
	return New(config.DefaultConfig(), stubSessions{}, gmaps, linkedin, enricher, nil)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleReview(author string) models.Review {
	return models.Review{Author: author, Rating: "5 stars", Text: "Great place", Date: "2 weeks ago"}
}

func TestReviewsSuccess(t *testing.T) {
	srv := newTestServer(stubGmaps{fn: func(name string) ([]models.Review, error) {
		return []models.Review{sampleReview("Reviewer of " + name)}, nil
	}}, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/reviews",
		`{"business_names":["Cafe Roma","Blue Bottle"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ReviewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusSuccess, resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Cafe Roma", resp.Data[0].BusinessName)
	assert.Equal(t, "Blue Bottle", resp.Data[1].BusinessName)
	assert.Equal(t, models.StatusSuccess, resp.Data[0].Status)
	require.Len(t, resp.Data[0].Reviews, 1)
}

func TestReviewsPartial(t *testing.T) {
	srv := newTestServer(stubGmaps{fn: func(name string) ([]models.Review, error) {
		if name == "Ghost Diner" {
			return nil, &scrape.NotFoundError{Query: name}
		}
		return []models.Review{sampleReview("Alice")}, nil
	}}, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/reviews",
		`{"business_names":["Cafe Roma","Ghost Diner"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ReviewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusPartial, resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, models.StatusSuccess, resp.Data[0].Status)
	assert.Equal(t, models.StatusFailure, resp.Data[1].Status)
	assert.NotEmpty(t, resp.Data[1].Error)
	assert.NotNil(t, resp.Data[1].Reviews)
}

func TestReviewsNoneFound(t *testing.T) {
	srv := newTestServer(stubGmaps{fn: func(name string) ([]models.Review, error) {
		return nil, &scrape.NotFoundError{Query: name}
	}}, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/reviews",
		`{"business_names":["Ghost Diner"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ReviewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusFailure, resp.Status)
	assert.Equal(t, "No reviews found for any of the businesses", resp.Error)
}

func TestReviewsSessionDeathFailsBatchKeepsResults(t *testing.T) {
	srv := newTestServer(stubGmaps{fn: func(name string) ([]models.Review, error) {
		if name == "Cafe Roma" {
			return []models.Review{sampleReview("Alice")}, nil
		}
		return nil, &scrape.SessionError{Err: errors.New("tab gone")}
	}}, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/reviews",
		`{"business_names":["Cafe Roma","Blue Bottle","Ghost Diner"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ReviewsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusFailure, resp.Status)
	assert.Contains(t, resp.Error, "browser session unusable")

	// the completed entity's records still ship, in request order
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Cafe Roma", resp.Data[0].BusinessName)
	assert.Equal(t, models.StatusSuccess, resp.Data[0].Status)
	require.Len(t, resp.Data[0].Reviews, 1)
	assert.Equal(t, models.StatusFailure, resp.Data[1].Status)
	assert.Equal(t, models.StatusFailure, resp.Data[2].Status)
}

func TestProfilesSessionDeathFailsBatch(t *testing.T) {
	srv := newTestServer(nil, stubLinkedIn{fn: func(company string) ([]models.Profile, error) {
		if company == "acme" {
			return []models.Profile{{
				Name:       "Jane Doe",
				ProfileURL: "https://www.linkedin.com/in/jane-doe",
			}}, nil
		}
		return nil, &scrape.SessionError{Err: errors.New("tab gone")}
	}}, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/linkedin-profiles",
		`{"business_names":["acme","globex"],"email":"u@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProfilesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusFailure, resp.Status)
	assert.Contains(t, resp.Error, "browser session unusable")
	require.Len(t, resp.Data, 2)
	assert.Equal(t, models.StatusSuccess, resp.Data[0].Status)
	require.Len(t, resp.Data[0].Profiles, 1)
	assert.Equal(t, models.StatusFailure, resp.Data[1].Status)
}

func TestReviewsBadJSON(t *testing.T) {
	srv := newTestServer(stubGmaps{}, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/reviews", `{"business_names": [`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewsEmptyNames(t *testing.T) {
	srv := newTestServer(stubGmaps{}, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/reviews", `{"business_names": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewsBrowserLaunchFailure(t *testing.T) {
	srv := New(config.DefaultConfig(), stubSessions{err: errors.New("chrome exited")},
		stubGmaps{}, nil, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/reviews",
		`{"business_names":["Cafe Roma"]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProfilesLoginFailureFailsAllCompanies(t *testing.T) {
	srv := newTestServer(nil, stubLinkedIn{
		loginErr: errors.New("login did not reach the feed"),
	}, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/linkedin-profiles",
		`{"business_names":["acme","globex"],"email":"u@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProfilesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusFailure, resp.Status)
	assert.Contains(t, resp.Error, "login")
	require.Len(t, resp.Data, 2)
	for _, item := range resp.Data {
		assert.Equal(t, models.StatusFailure, item.Status)
		assert.NotEmpty(t, item.Error)
	}
}

func TestProfilesSuccess(t *testing.T) {
	srv := newTestServer(nil, stubLinkedIn{fn: func(company string) ([]models.Profile, error) {
		return []models.Profile{{
			Name:       "Jane Doe",
			Subtitle:   "Engineer at " + company,
			ProfileURL: "https://www.linkedin.com/in/jane-doe",
		}}, nil
	}}, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/linkedin-profiles",
		`{"business_names":["acme"],"email":"u@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ProfilesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusSuccess, resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "acme", resp.Data[0].CompanyName)
	require.Len(t, resp.Data[0].Profiles, 1)
	assert.Equal(t, "Jane Doe", resp.Data[0].Profiles[0].Name)
}

func TestProfilesMissingCredentials(t *testing.T) {
	srv := newTestServer(nil, stubLinkedIn{}, nil)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/linkedin-profiles",
		`{"business_names":["acme"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrichSuccess(t *testing.T) {
	enricher := &stubEnricher{enabled: true, snapshot: "s_abc123"}
	srv := newTestServer(nil, nil, enricher)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/enrich",
		`{"profile_urls":["https://www.linkedin.com/in/jane-doe"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.EnrichResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, "s_abc123", resp.SnapshotID)
	assert.Equal(t, 1, resp.Submitted)
	assert.Len(t, enricher.got, 1)
}

func TestEnrichNotConfigured(t *testing.T) {
	srv := newTestServer(nil, nil, &stubEnricher{enabled: false})

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/enrich",
		`{"profile_urls":["https://www.linkedin.com/in/jane-doe"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.EnrichResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusFailure, resp.Status)
	assert.Contains(t, resp.Error, "not configured")
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
