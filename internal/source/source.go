// Package source describes where news releases are scraped from.
package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListingSelector = `.views-row .field-content a[hreflang="en"]`
	DefaultBodySelector    = "div.field--name-body"
)

// Profile is the YAML source profile:
//
//	listing_url: https://www.uscis.gov/newsroom/news-releases
//	base_url: https://www.uscis.gov
//	listing_selector: .views-row .field-content a[hreflang="en"]
//	body_selector: div.field--name-body
type Profile struct {
	ListingURL      string `yaml:"listing_url"`
	BaseURL         string `yaml:"base_url"`
	ListingSelector string `yaml:"listing_selector"`
	BodySelector    string `yaml:"body_selector"`
}

// Default returns the USCIS profile with the given listing and base URL.
func Default(listingURL, baseURL string) Profile {
	return Profile{
		ListingURL:      listingURL,
		BaseURL:         baseURL,
		ListingSelector: DefaultListingSelector,
		BodySelector:    DefaultBodySelector,
	}
}

// Load reads a profile from path. Fields missing in the file keep the values
// of base.
func Load(path string, base Profile) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("failed to open source profile: %w", err)
	}
	defer f.Close()

	var p Profile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return base, fmt.Errorf("failed to parse source profile %s: %w", path, err)
	}

	if p.ListingURL == "" {
		p.ListingURL = base.ListingURL
	}
	if p.BaseURL == "" {
		p.BaseURL = base.BaseURL
	}
	if p.ListingSelector == "" {
		p.ListingSelector = base.ListingSelector
	}
	if p.BodySelector == "" {
		p.BodySelector = base.BodySelector
	}
	return p, nil
}
