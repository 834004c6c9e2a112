// Package server exposes the scraping service over HTTP. Every scrape
// endpoint answers 200 with a status field (success, partial, failure);
// 400 is reserved for malformed requests and 500 for a browser that
// would not launch.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"business-scraper/batch"
	"business-scraper/browser"
	"business-scraper/config"
	"business-scraper/models"
	"business-scraper/utils"
)

// SessionProvider hands out fresh browser tabs. One tab serves one
// request from start to finish.
type SessionProvider interface {
	NewSession() (browser.Session, error)
}

type ReviewScraper interface {
	ScrapeReviews(ctx context.Context, log utils.Request, sess browser.Session, businessName string) ([]models.Review, error)
}

type ProfileScraper interface {
	Login(ctx context.Context, log utils.Request, sess browser.Session, email, password string) error
	ScrapeCompany(ctx context.Context, log utils.Request, sess browser.Session, companyInput string) ([]models.Profile, error)
}

type Enricher interface {
	Enabled() bool
	Trigger(ctx context.Context, urls []string) (string, error)
}

// Archiver persists successful results. A nil Archiver disables
// archiving; write failures are logged, never surfaced to callers.
type Archiver interface {
	WriteReviews(ctx context.Context, business string, reviews []models.Review) error
	WriteProfiles(ctx context.Context, company string, profiles []models.Profile) error
}

type Server struct {
	cfg      *config.Config
	sessions SessionProvider
	gmaps    ReviewScraper
	linkedin ProfileScraper
	enricher Enricher
	archive  Archiver
}

func New(cfg *config.Config, sessions SessionProvider, gmaps ReviewScraper, linkedin ProfileScraper, enricher Enricher, archive Archiver) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		gmaps:    gmaps,
		linkedin: linkedin,
		enricher: enricher,
		archive:  archive,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /reviews", s.handleReviews)
	mux.HandleFunc("POST /linkedin-profiles", s.handleProfiles)
	mux.HandleFunc("POST /enrich", s.handleEnrich)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

func newRequestLog() utils.Request {
	return utils.Request{ID: uuid.NewString()[:8]}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"status": models.StatusFailure,
		"error":  msg,
	})
}

func writeLaunchFailure(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"status": models.StatusFailure,
		"error":  "failed to start browser session: " + err.Error(),
	})
}

// batchStatus collapses per-entity outcomes into the response status.
func batchStatus(failed, total int) string {
	switch {
	case failed == 0:
		return models.StatusSuccess
	case failed == total:
		return models.StatusFailure
	default:
		return models.StatusPartial
	}
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	var req models.BusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.BusinessNames) == 0 {
		writeBadRequest(w, "business_names must not be empty")
		return
	}

	log := newRequestLog()
	log.Info("Reviews request for %d businesses", len(req.BusinessNames))

	sess, err := s.sessions.NewSession()
	if err != nil {
		log.Error("Browser launch failed: %v", err)
		writeLaunchFailure(w, err)
		return
	}
	defer sess.Close()

	out := batch.Run(r.Context(), log, req.BusinessNames, func(ctx context.Context, name string) ([]models.Review, error) {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
		return s.gmaps.ScrapeReviews(ctx, log, sess, name)
	})

	resp := models.ReviewsResponse{Data: make([]models.BusinessReviews, 0, len(out.Results))}
	for _, res := range out.Results {
		item := models.BusinessReviews{
			BusinessName: res.Entity,
			Reviews:      res.Records,
			Status:       models.StatusSuccess,
		}
		if item.Reviews == nil {
			item.Reviews = []models.Review{}
		}
		if res.Err != nil {
			item.Status = models.StatusFailure
			item.Error = res.Err.Error()
		}
		resp.Data = append(resp.Data, item)
	}

	resp.Status = batchStatus(out.Failed(), len(out.Results))
	if out.Empty() {
		resp.Status = models.StatusFailure
		resp.Error = "No reviews found for any of the businesses"
	}
	// A lost session fails the batch as a whole, even when earlier
	// entities completed. Their results still ship in Data.
	if out.SessionErr != nil {
		resp.Status = models.StatusFailure
		resp.Error = out.SessionErr.Error()
	}

	s.archiveReviews(r.Context(), log, out)

	log.Info("Reviews request done: %s (%d/%d failed)", resp.Status, out.Failed(), len(out.Results))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) archiveReviews(ctx context.Context, log utils.Request, out batch.Outcome[models.Review]) {
	if s.archive == nil {
		return
	}
	for _, res := range out.Results {
		if res.Err != nil || len(res.Records) == 0 {
			continue
		}
		if err := s.archive.WriteReviews(ctx, res.Entity, res.Records); err != nil {
			log.Warn("Archive write for %q failed: %v", res.Entity, err)
		}
	}
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	var req models.LinkedInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.BusinessNames) == 0 {
		writeBadRequest(w, "business_names must not be empty")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	log := newRequestLog()
	log.Info("LinkedIn request for %d companies", len(req.BusinessNames))

	sess, err := s.sessions.NewSession()
	if err != nil {
		log.Error("Browser launch failed: %v", err)
		writeLaunchFailure(w, err)
		return
	}
	defer sess.Close()

	loginCtx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	err = s.linkedin.Login(loginCtx, log, sess, req.Email, req.Password)
	cancel()
	if err != nil {
		log.Error("Login failed: %v", err)
		writeJSON(w, http.StatusOK, failedProfilesResponse(req.BusinessNames, "LinkedIn login failed: "+err.Error()))
		return
	}

	out := batch.Run(r.Context(), log, req.BusinessNames, func(ctx context.Context, company string) ([]models.Profile, error) {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
		return s.linkedin.ScrapeCompany(ctx, log, sess, company)
	})

	resp := models.ProfilesResponse{Data: make([]models.CompanyProfiles, 0, len(out.Results))}
	for _, res := range out.Results {
		item := models.CompanyProfiles{
			CompanyName: res.Entity,
			Profiles:    res.Records,
			Status:      models.StatusSuccess,
		}
		if item.Profiles == nil {
			item.Profiles = []models.Profile{}
		}
		if res.Err != nil {
			item.Status = models.StatusFailure
			item.Error = res.Err.Error()
		}
		resp.Data = append(resp.Data, item)
	}

	resp.Status = batchStatus(out.Failed(), len(out.Results))
	if out.Empty() {
		resp.Status = models.StatusFailure
		resp.Error = "No profiles found for any of the companies"
	}
	if out.SessionErr != nil {
		resp.Status = models.StatusFailure
		resp.Error = out.SessionErr.Error()
	}

	s.archiveProfiles(r.Context(), log, out)

	log.Info("LinkedIn request done: %s (%d/%d failed)", resp.Status, out.Failed(), len(out.Results))
	writeJSON(w, http.StatusOK, resp)
}

func failedProfilesResponse(companies []string, msg string) models.ProfilesResponse {
	resp := models.ProfilesResponse{
		Status: models.StatusFailure,
		Error:  msg,
		Data:   make([]models.CompanyProfiles, 0, len(companies)),
	}
	for _, c := range companies {
		resp.Data = append(resp.Data, models.CompanyProfiles{
			CompanyName: c,
			Profiles:    []models.Profile{},
			Status:      models.StatusFailure,
			Error:       msg,
		})
	}
	return resp
}

func (s *Server) archiveProfiles(ctx context.Context, log utils.Request, out batch.Outcome[models.Profile]) {
	if s.archive == nil {
		return
	}
	for _, res := range out.Results {
		if res.Err != nil || len(res.Records) == 0 {
			continue
		}
		if err := s.archive.WriteProfiles(ctx, res.Entity, res.Records); err != nil {
			log.Warn("Archive write for %q failed: %v", res.Entity, err)
		}
	}
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req models.EnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.ProfileURLs) == 0 {
		writeBadRequest(w, "profile_urls must not be empty")
		return
	}

	log := newRequestLog()

	if s.enricher == nil || !s.enricher.Enabled() {
		writeJSON(w, http.StatusOK, models.EnrichResponse{
			Status: models.StatusFailure,
			Error:  "enrichment is not configured",
		})
		return
	}

	snapshot, err := s.enricher.Trigger(r.Context(), req.ProfileURLs)
	if err != nil {
		log.Error("Enrich trigger failed: %v", err)
		writeJSON(w, http.StatusOK, models.EnrichResponse{
			Status: models.StatusFailure,
			Error:  err.Error(),
		})
		return
	}

	log.Success("Enrich snapshot %s for %d profiles", snapshot, len(req.ProfileURLs))
	writeJSON(w, http.StatusOK, models.EnrichResponse{
		Status:     models.StatusSuccess,
		Submitted:  len(req.ProfileURLs),
		SnapshotID: snapshot,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
