// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package geo

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jcastanov/issuemap/internal/geocache"
	"github.com/jcastanov/issuemap/internal/models"
)

// Provider performs one geolocation lookup against an upstream service.
type Provider interface {
	// Lookup returns the parsed location and the raw response body, which
	// the resolver persists verbatim in the cache.
	Lookup(ctx context.Context, ip string) (*models.Location, []byte, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// AbstractProvider queries the abstractapi.com IP-geolocation service:
// GET {base}?api_key={key}&ip_address={ip}.
type AbstractProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewAbstractProvider creates a provider against the given endpoint. A zero
// timeout falls back to 10 seconds.
func NewAbstractProvider(baseURL, apiKey string, timeout time.Duration) *AbstractProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AbstractProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Name implements Provider.
func (p *AbstractProvider) Name() string {
	return "abstractapi"
}

// Lookup implements Provider.
func (p *AbstractProvider) Lookup(ctx context.Context, ip string) (*models.Location, []byte, error) {
	if net.ParseIP(ip) == nil {
		return nil, nil, fmt.Errorf("invalid IP address: %s", ip)
	}

	params := url.Values{}
	if p.apiKey != "" {
		params.Set("api_key", p.apiKey)
	}
	params.Set("ip_address", ip)
	reqURL := p.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%s returned status %d for %s", p.Name(), resp.StatusCode, ip)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s response: %w", p.Name(), err)
	}

	loc, err := geocache.DecodeDocument(ip, raw)
	if err != nil {
		return nil, nil, err
	}
	return loc, raw, nil
}

// IsPrivateIP reports whether the address is in a private or local range and
// therefore cannot be geolocated by any provider.
func IsPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	// RFC 1918 plus loopback, link-local, and their IPv6 equivalents.
	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	}

	for _, cidr := range privateRanges {
		if _, network, err := net.ParseCIDR(cidr); err == nil && network.Contains(ip) {
			return true
		}
	}
	return false
}

// NormalizeIP strips a port suffix from host:port and [v6]:port forms; bare
// addresses pass through unchanged.
func NormalizeIP(addr string) string {
	if strings.HasPrefix(addr, "[") {
		if idx := strings.LastIndex(addr, "]:"); idx != -1 {
			return addr[1:idx]
		}
		return strings.Trim(addr, "[]")
	}

	// Only strip on a single colon; multiple colons means bare IPv6.
	if strings.Count(addr, ":") == 1 {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
	}
	return addr
}
