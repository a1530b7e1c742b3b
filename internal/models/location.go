// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package models

// Location status markers distinguishing resolved results from fallbacks.
const (
	LocationStatusSuccess = "success"
	LocationStatusDefault = "default"
	LocationStatusLocal   = "local"
)

// Location is the normalized geolocation attached to an event. Status tells
// consumers whether the coordinates came from the provider (success), from the
// fixed fallback (default), or from a private-range shortcut (local).
type Location struct {
	IP          string  `json:"ip,omitempty"`
	City        string  `json:"city,omitempty"`
	Region      string  `json:"region,omitempty"`
	RegionCode  string  `json:"region_code,omitempty"`
	Country     string  `json:"country_name,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Continent   string  `json:"continent_name,omitempty"`
	Postal      string  `json:"postal,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// DefaultLocation returns the fixed fallback used when resolution fails.
// Downstream code never needs to branch on a missing location; map consumers
// filter on Status instead.
func DefaultLocation() *Location {
	return &Location{
		IP:          "192.0.2.1",
		City:        "Lawrence",
		Region:      "Massachusetts",
		RegionCode:  "MA",
		Country:     "United States",
		CountryCode: "US",
		Continent:   "North America",
		Postal:      "01840",
		Latitude:    42.707,
		Longitude:   -71.1631,
		Timezone:    "America/New_York",
		Status:      LocationStatusDefault,
	}
}

// LocalLocation returns the entry used for private/LAN addresses, which cannot
// be geolocated by any provider.
func LocalLocation(ip string) *Location {
	return &Location{
		IP:      ip,
		City:    "Local Network",
		Country: "Local",
		Status:  LocationStatusLocal,
	}
}

// IsDefault reports whether the location is the fallback stand-in.
func (l *Location) IsDefault() bool {
	return l.Status == LocationStatusDefault
}
