package catalog

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile describes one retailer site: where its catalog lives and the
// markers its pages and feed use.
type Profile struct {
	Name            string          `yaml:"name"`
	BaseURL         string          `yaml:"base_url"`
	FeedURL         string          `yaml:"feed_url"`
	DetailPath      string          `yaml:"detail_path"`
	ArrivalsFeedURL string          `yaml:"arrivals_feed_url"`
	ListingURLs     []string        `yaml:"listing_urls"`
	HouseMarker     string          `yaml:"house_marker"`
	Categories      []string        `yaml:"categories"`
	SizeExclusions  []string        `yaml:"size_exclusions"`
	Settings        ProfileSettings `yaml:"settings"`
}

type ProfileSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	Timeout         int  `yaml:"timeout"`          // seconds
	RequestInterval int  `yaml:"request_interval"` // milliseconds between detail fetches
}

// HouseReviewer is the reviewer name used for retailer-authored notes.
func (p *Profile) HouseReviewer() string {
	return p.HouseMarker + "Notes"
}

func DefaultProfile() *Profile {
	profile := &Profile{
		Name:     "klwines",
		BaseURL:  "http://www.klwines.com",
		FeedURL:  "http://www.klwines.com/exports/Winesearcher.txt",
		Settings: ProfileSettings{Enabled: true},
	}
	applyProfileDefaults(profile)
	return profile
}

// LoadProfile reads a YAML profile. A missing file yields the built-in
// K&L profile.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Warn("Profile file not found, using defaults", "path", path)
		return DefaultProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if profile.Name == "" {
		fileName := filepath.Base(path)
		profile.Name = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}

	applyProfileDefaults(&profile)

	if err := validateProfile(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	slog.Debug("Profile loaded", "profile", profile.Name, "enabled", profile.Settings.Enabled, "refresh_interval", profile.Settings.RefreshInterval)

	return &profile, nil
}

func applyProfileDefaults(profile *Profile) {
	profile.BaseURL = strings.TrimRight(profile.BaseURL, "/")

	if profile.DetailPath == "" {
		profile.DetailPath = "/detail.asp"
	}
	if profile.HouseMarker == "" {
		profile.HouseMarker = "K&L"
	}
	if len(profile.Categories) == 0 {
		profile.Categories = []string{"Wine - Sparkling", "Wine - Red", "Wine - White", "Wine - Rose"}
	}
	if len(profile.SizeExclusions) == 0 {
		profile.SizeExclusions = []string{"375ml", "1.5l", "3.0l", "3l", "6l", "12l"}
	}
	if profile.Settings.RefreshInterval == 0 {
		profile.Settings.RefreshInterval = 86400
	}
	if profile.Settings.Timeout == 0 {
		profile.Settings.Timeout = 30
	}
	if profile.Settings.RequestInterval == 0 {
		profile.Settings.RequestInterval = 1000
	}
}

func validateProfile(profile *Profile) error {
	requiredFields := map[string]string{
		"base URL": profile.BaseURL,
		"feed URL": profile.FeedURL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if _, err := url.ParseRequestURI(profile.BaseURL); err != nil {
		return fmt.Errorf("base URL is invalid: %w", err)
	}

	nonNegativeFields := map[string]int{
		"refresh interval": profile.Settings.RefreshInterval,
		"timeout":          profile.Settings.Timeout,
		"request interval": profile.Settings.RequestInterval,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}
