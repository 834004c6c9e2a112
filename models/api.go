package models

// Batch status values reported at both the entity and response level.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailure = "failure"
)

// BusinessRequest is the body of POST /reviews.
type BusinessRequest struct {
	BusinessNames []string `json:"business_names"`
}

// LinkedInRequest is the body of POST /linkedin-profiles. The credentials
// gate the login flow; they are never persisted.
type LinkedInRequest struct {
	BusinessNames []string `json:"business_names"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
}

// EnrichRequest is the body of POST /enrich: profile URLs to hand off to
// the bulk-data provider.
type EnrichRequest struct {
	ProfileURLs []string `json:"profile_urls"`
}

// BusinessReviews is one entity's slice of the /reviews response.
type BusinessReviews struct {
	BusinessName string   `json:"business_name"`
	Reviews      []Review `json:"reviews"`
	Status       string   `json:"status"`
	Error        string   `json:"error,omitempty"`
}

// CompanyProfiles is one entity's slice of the /linkedin-profiles response.
type CompanyProfiles struct {
	CompanyName string    `json:"company_name"`
	Profiles    []Profile `json:"profiles"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
}

// ReviewsResponse is the full /reviews payload. The HTTP status is always
// 200; Status carries success/partial/failure instead.
type ReviewsResponse struct {
	Status string            `json:"status"`
	Data   []BusinessReviews `json:"data"`
	Error  string            `json:"error,omitempty"`
}

// ProfilesResponse is the full /linkedin-profiles payload.
type ProfilesResponse struct {
	Status string            `json:"status"`
	Data   []CompanyProfiles `json:"data"`
	Error  string            `json:"error,omitempty"`
}

// EnrichResponse reports the outcome of a bulk-data trigger.
type EnrichResponse struct {
	Status     string `json:"status"`
	Submitted  int    `json:"submitted"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Error      string `json:"error,omitempty"`
}
