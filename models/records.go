package models

// OwnerResponse is the business owner's reply attached to a review, when
// one exists.
type OwnerResponse struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// Review is a single Google Maps review as displayed on the page.
// Rating is kept free-form ("5 stars") because Maps renders it as an
// aria-label, not a number.
type Review struct {
	Author        string         `json:"author"`
	Rating        string         `json:"rating"`
	Text          string         `json:"text"`
	Date          string         `json:"date"`
	OwnerResponse *OwnerResponse `json:"owner_response,omitempty"`
}

// Profile is one employee profile card from a LinkedIn company People page.
// Name and ProfileURL are mandatory; everything else may be empty when the
// page does not show it.
type Profile struct {
	Name             string `json:"name"`
	Subtitle         string `json:"subtitle"`
	ProfileURL       string `json:"profile_url"`
	Location         string `json:"location,omitempty"`
	About            string `json:"about,omitempty"`
	LatestJobTitle   string `json:"latest_job_title,omitempty"`
	LatestJobCompany string `json:"latest_job_company,omitempty"`
}
