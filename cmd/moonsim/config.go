package main

import (
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/midbel/toml"
)

// SiteConfig is the observer's fixed geodetic location.
type SiteConfig struct {
	Name      string  `toml:"name"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
}

// defaultSite is the shipped observer location (central Arizona).
var defaultSite = SiteConfig{
	Name:      "arizona",
	Latitude:  34.0489,
	Longitude: -111.9,
}

// loadSiteConfig resolves the observer location. Precedence:
// MOONSIM_SITE_FILE (TOML), then MOONSIM_OBSERVER_LAT/LON env overrides,
// then the built-in default.
func loadSiteConfig(logger *slog.Logger) (SiteConfig, error) {
	site := defaultSite

	if file := os.Getenv("MOONSIM_SITE_FILE"); file != "" {
		if err := toml.DecodeFile(file, &site); err != nil {
			return site, err
		}
		logger.Info("site config loaded", "file", file, "site", site.Name)
	}

	if v := os.Getenv("MOONSIM_OBSERVER_LAT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return site, errors.New("MOONSIM_OBSERVER_LAT must be a number")
		}
		site.Latitude = f
	}

	if v := os.Getenv("MOONSIM_OBSERVER_LON"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return site, errors.New("MOONSIM_OBSERVER_LON must be a number")
		}
		site.Longitude = f
	}

	if site.Latitude < -90 || site.Latitude > 90 {
		return site, errors.New("observer latitude must be in [-90, 90]")
	}
	if site.Longitude < -180 || site.Longitude > 180 {
		return site, errors.New("observer longitude must be in [-180, 180]")
	}

	return site, nil
}
