package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleFixture = `
<main>
<ul>
  <li class="org-people-profile-card">
    <div class="artdeco-entity-lockup__title">
      <a data-test-app-aware-link href="https://www.linkedin.com/in/jane-doe?miniProfile=abc">
        <div>Jane Doe</div>
      </a>
    </div>
    <div class="artdeco-entity-lockup__subtitle">
      <div class="lt-line-clamp--multi-line">Staff Engineer at Civeo</div>
    </div>
  </li>
  <li class="org-people-profile-card">
    <div class="artdeco-entity-lockup__title">
      <a data-test-app-aware-link href="https://www.linkedin.com/in/john-roe">
        <div>John Roe</div>
      </a>
    </div>
  </li>
  <li class="org-people-profile-card">
    <div class="artdeco-entity-lockup__title">
      <span>LinkedIn Member</span>
    </div>
  </li>
  <li class="org-people-profile-card">
    <div class="artdeco-entity-lockup__title">
      <a data-test-app-aware-link href="https://www.linkedin.com/in/jane-doe?miniProfile=xyz">
        <div>Jane Doe</div>
      </a>
    </div>
    <div class="artdeco-entity-lockup__subtitle">
      <div class="lt-line-clamp--multi-line">Staff Engineer at Civeo</div>
    </div>
  </li>
</ul>
</main>`

func TestParseProfiles(t *testing.T) {
	profiles, stats := ParseProfiles(peopleFixture, DefaultSelectors())

	require.Len(t, profiles, 2)

	assert.Equal(t, "Jane Doe", profiles[0].Name)
	assert.Equal(t, "Staff Engineer at Civeo", profiles[0].Subtitle)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe?miniProfile=abc", profiles[0].ProfileURL)

	// Missing subtitle stays an empty placeholder, the record survives.
	assert.Equal(t, "John Roe", profiles[1].Name)
	assert.Equal(t, "", profiles[1].Subtitle)

	// Card without a profile link is skipped alone; the duplicate Jane
	// collapses to her first appearance.
	assert.Equal(t, 4, stats.Cards)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Dupes)
	assert.Equal(t, 1, stats.Misses["profile_url"])
}

func TestParseProfilesIsIdempotent(t *testing.T) {
	first, _ := ParseProfiles(peopleFixture, DefaultSelectors())
	second, _ := ParseProfiles(peopleFixture, DefaultSelectors())
	assert.Equal(t, first, second)
}

func TestParseProfilesEmpty(t *testing.T) {
	profiles, stats := ParseProfiles("", DefaultSelectors())
	assert.Empty(t, profiles)
	assert.Equal(t, 0, stats.Cards)

	profiles, _ = ParseProfiles("<main><ul></ul></main>", DefaultSelectors())
	assert.Empty(t, profiles)
}

func TestCompanyUsername(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"https://www.linkedin.com/company/google/", "google"},
		{"https://www.linkedin.com/company/civeo?originalSub=x", "civeo"},
		{"http://linkedin.com/company/acme/people/", "acme"},
		{"acme", "acme"},
		{"  spacely  ", "spacely"},
		{"https://example.com/not-linkedin", "https://example.com/not-linkedin"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, CompanyUsername(c.input), "input %q", c.input)
	}
}

const detailFixture = `
<main>
  <section>
    <div class="mt2"><span class="text-body-small">Houston, Texas, United States</span></div>
  </section>
  <section>
    <div id="about"></div>
    <div class="inline-show-more-text"><span aria-hidden="true">Operations leader with 15 years in workforce housing.</span></div>
  </section>
  <section>
    <div id="experience"></div>
    <div>
      <ul>
        <li>
          <div class="display-flex align-items-center mr1"><span aria-hidden="true">Director of Operations</span></div>
          <span class="t-14 t-normal"><span aria-hidden="true">Civeo Corporation</span></span>
        </li>
        <li>
          <div class="display-flex align-items-center mr1"><span aria-hidden="true">Old Job</span></div>
        </li>
      </ul>
    </div>
  </section>
</main>`

func TestParseProfileDetails(t *testing.T) {
	d := ParseProfileDetails(detailFixture, DefaultSelectors())

	assert.Equal(t, "Houston, Texas, United States", d.Location)
	assert.Equal(t, "Operations leader with 15 years in workforce housing.", d.About)
	assert.Equal(t, "Director of Operations", d.LatestJobTitle)
	assert.Equal(t, "Civeo Corporation", d.LatestJobCompany)
}

func TestParseProfileDetailsMissingSections(t *testing.T) {
	d := ParseProfileDetails("<main><h1>Someone</h1></main>", DefaultSelectors())
	assert.Equal(t, Details{}, d)
}

func TestStripQuery(t *testing.T) {
	assert.Equal(t, "https://www.linkedin.com/in/jane", stripQuery("https://www.linkedin.com/in/jane?mini=1"))
	assert.Equal(t, "https://www.linkedin.com/in/jane", stripQuery("https://www.linkedin.com/in/jane"))
}
