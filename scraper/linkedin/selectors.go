package linkedin

// Selectors for the LinkedIn login, company People page and profile detail
// views. These WILL break when LinkedIn changes their markup; inspect the
// pages in DevTools to verify and update. They are data, not logic.
type Selectors struct {
	LoginEmail    string
	LoginPassword string
	LoginSubmit   string

	// ProfileCard matches one employee card on the People page; it doubles
	// as the page-loaded marker.
	ProfileCard string
	// CardLink is the profile link inside a card; its text holds the name.
	CardLink     string
	CardName     string
	CardSubtitle string
	// ShowMore is the "Show more results" affordance at the list bottom.
	ShowMore string

	// Profile detail page (deep scrape).
	DetailMarker   string
	DetailLocation []string
	DetailAbout    []string
	AboutSeeMore   string
	ExperienceItem string
	JobTitle       []string
	JobCompany     []string
}

func DefaultSelectors() Selectors {
	return Selectors{
		LoginEmail:    `#username`,
		LoginPassword: `#password`,
		LoginSubmit:   `button[type="submit"]`,

		ProfileCard:  `li.org-people-profile-card`,
		CardLink:     `div.artdeco-entity-lockup__title a[data-test-app-aware-link]`,
		CardName:     `div`,
		CardSubtitle: `div.artdeco-entity-lockup__subtitle div.lt-line-clamp--multi-line`,
		ShowMore:     `button.scaffold-finite-scroll__load-button`,

		DetailMarker: `h1`,
		DetailLocation: []string{
			`span.text-body-small.inline.t-black--light.break-words`,
			`div.mt2 span.text-body-small`,
		},
		DetailAbout: []string{
			`section div.inline-show-more-text span[aria-hidden="true"]`,
			`div#about ~ div span[aria-hidden="true"]`,
		},
		AboutSeeMore:   `button.inline-show-more-text__button`,
		ExperienceItem: `div#experience ~ div ul > li`,
		JobTitle: []string{
			`div.display-flex.align-items-center.mr1 span[aria-hidden="true"]`,
			`span.t-bold span[aria-hidden="true"]`,
		},
		JobCompany: []string{
			`span.t-14.t-normal span[aria-hidden="true"]`,
			`span.t-normal span[aria-hidden="true"]`,
		},
	}
}
