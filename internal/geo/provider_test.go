// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const providerDoc = `{
	"ip_address": "8.8.8.8",
	"city": "Mountain View",
	"region": "California",
	"country": "United States",
	"country_code": "US",
	"latitude": 37.42,
	"longitude": -122.08,
	"timezone": {"name": "America/Los_Angeles"}
}`

func TestAbstractProviderLookup(t *testing.T) {
	var gotKey, gotIP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotIP = r.URL.Query().Get("ip_address")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(providerDoc))
	}))
	defer srv.Close()

	p := NewAbstractProvider(srv.URL, "secret", time.Second)
	loc, raw, err := p.Lookup(context.Background(), "8.8.8.8")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}

	if gotKey != "secret" {
		t.Errorf("api_key = %q", gotKey)
	}
	if gotIP != "8.8.8.8" {
		t.Errorf("ip_address = %q", gotIP)
	}
	if loc.City != "Mountain View" || loc.CountryCode != "US" {
		t.Errorf("unexpected location %+v", loc)
	}
	if len(raw) == 0 {
		t.Error("expected raw body for caching")
	}
}

func TestAbstractProviderNon200(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"rate limited", http.StatusTooManyRequests},
		{"unauthorized", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := NewAbstractProvider(srv.URL, "", time.Second)
			if _, _, err := p.Lookup(context.Background(), "8.8.8.8"); err == nil {
				t.Errorf("expected error for status %d", tt.status)
			}
		})
	}
}

func TestAbstractProviderRejectsInvalidIP(t *testing.T) {
	p := NewAbstractProvider("http://unused", "", time.Second)
	if _, _, err := p.Lookup(context.Background(), "not-an-ip"); err == nil {
		t.Error("expected error for invalid IP")
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		name     string
		ip       string
		expected bool
	}{
		{"rfc1918 10/8", "10.1.2.3", true},
		{"rfc1918 172.16/12", "172.20.0.1", true},
		{"rfc1918 192.168/16", "192.168.1.1", true},
		{"loopback", "127.0.0.1", true},
		{"link-local", "169.254.10.10", true},
		{"v6 loopback", "::1", true},
		{"v6 unique local", "fd12::1", true},
		{"public v4", "8.8.8.8", false},
		{"public v6", "2001:4860:4860::8888", false},
		{"outside 172.16/12", "172.32.0.1", false},
		{"garbage", "nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPrivateIP(tt.ip); got != tt.expected {
				t.Errorf("IsPrivateIP(%q) = %v, expected %v", tt.ip, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare v4", "8.8.8.8", "8.8.8.8"},
		{"v4 with port", "8.8.8.8:443", "8.8.8.8"},
		{"bare v6", "2001:db8::1", "2001:db8::1"},
		{"bracketed v6 with port", "[2001:db8::1]:443", "2001:db8::1"},
		{"bracketed v6 no port", "[2001:db8::1]", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeIP(tt.input); got != tt.expected {
				t.Errorf("NormalizeIP(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
