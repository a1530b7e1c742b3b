// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package geocache

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/jcastanov/issuemap/internal/models"
)

// providerDocument is the geolocation provider's wire format, the shape
// cached verbatim as the value for each IP key.
type providerDocument struct {
	IPAddress   string  `json:"ip_address"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	RegionISO   string  `json:"region_iso_code"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Continent   string  `json:"continent"`
	PostalCode  string  `json:"postal_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    struct {
		Name string `json:"name"`
	} `json:"timezone"`
}

// DecodeDocument parses a cached provider document into the normalized
// location, marked as a successful resolution.
func DecodeDocument(ip string, raw []byte) (*models.Location, error) {
	var doc providerDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cached location for %s: %w", ip, err)
	}

	loc := &models.Location{
		IP:          doc.IPAddress,
		City:        doc.City,
		Region:      doc.Region,
		RegionCode:  doc.RegionISO,
		Country:     doc.Country,
		CountryCode: doc.CountryCode,
		Continent:   doc.Continent,
		Postal:      doc.PostalCode,
		Latitude:    doc.Latitude,
		Longitude:   doc.Longitude,
		Timezone:    doc.Timezone.Name,
		Status:      models.LocationStatusSuccess,
	}
	if loc.IP == "" {
		loc.IP = ip
	}
	return loc, nil
}
