// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package config

import "time"

// Config is the root application configuration.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Sentry SentryConfig `koanf:"sentry"`
	Geo    GeoConfig    `koanf:"geo"`
	Push   PushConfig   `koanf:"push"`
	Relay  RelayConfig  `koanf:"relay"`
	Sync   SyncConfig   `koanf:"sync"`
	Data   DataConfig   `koanf:"data"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// SentryConfig describes the upstream issue-tracking API. Token is an
// injected credential; its lifecycle is out of scope.
type SentryConfig struct {
	BaseURL      string        `koanf:"base_url" validate:"required,url"`
	Organization string        `koanf:"organization" validate:"required"`
	Token        string        `koanf:"token" validate:"required"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`

	RetryAttempts int           `koanf:"retry_attempts" validate:"gte=1"`
	RetryDelay    time.Duration `koanf:"retry_delay" validate:"gt=0"`
}

// GeoConfig describes the geolocation provider and the request throttle in
// front of it.
type GeoConfig struct {
	ProviderURL string        `koanf:"provider_url" validate:"required,url"`
	APIKey      string        `koanf:"api_key"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`

	// Throttle window: at most MaxPerWindow lookups are released per Window.
	MaxPerWindow int           `koanf:"max_per_window" validate:"gte=1"`
	Window       time.Duration `koanf:"window" validate:"gt=0"`
}

// PushConfig describes the Expo push gateway.
type PushConfig struct {
	Endpoint string        `koanf:"endpoint" validate:"required,url"`
	Timeout  time.Duration `koanf:"timeout" validate:"gt=0"`

	// SendsPerSecond caps outbound gateway requests.
	SendsPerSecond float64 `koanf:"sends_per_second" validate:"gt=0"`
}

// RelayConfig describes the webhook relay HTTP server.
type RelayConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// Webhook route rate limit (requests per window per remote IP).
	RateLimit       int           `koanf:"rate_limit" validate:"gte=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// SyncConfig controls the project sync engine.
type SyncConfig struct {
	// Timeout bounds one full sync cycle including the issue-list fetch.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// AutoSyncOnNotify re-syncs a project when a webhook notification for it
	// arrives on the bus.
	AutoSyncOnNotify bool `koanf:"auto_sync_on_notify"`

	// HealthInterval is how often project server status is probed.
	HealthInterval time.Duration `koanf:"health_interval" validate:"gt=0"`

	// HealthURLs maps project names to liveness-probe URLs. Projects without
	// an entry are reported live.
	HealthURLs map[string]string `koanf:"health_urls"`
}

// DataConfig locates the Badger database backing the geolocation cache and
// the push-token registry.
type DataConfig struct {
	Dir string `koanf:"dir" validate:"required"`

	// InMemory runs Badger without disk persistence. Tests only.
	InMemory bool `koanf:"in_memory"`
}

// defaultConfig returns the defaults applied before file and env overrides.
func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Sentry: SentryConfig{
			BaseURL:       "https://sentry.io/api/0",
			Organization:  "",
			Token:         "",
			Timeout:       30 * time.Second,
			RetryAttempts: 3,
			RetryDelay:    2 * time.Second,
		},
		Geo: GeoConfig{
			ProviderURL:  "https://ipgeolocation.abstractapi.com/v1/",
			APIKey:       "",
			Timeout:      10 * time.Second,
			MaxPerWindow: 5,
			Window:       time.Second,
		},
		Push: PushConfig{
			Endpoint:       "https://exp.host/--/api/v2/push/send",
			Timeout:        15 * time.Second,
			SendsPerSecond: 10,
		},
		Relay: RelayConfig{
			Addr:            ":8471",
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       60,
			RateLimitWindow: time.Minute,
		},
		Sync: SyncConfig{
			Timeout:          60 * time.Second,
			AutoSyncOnNotify: true,
			HealthInterval:   5 * time.Minute,
			HealthURLs:       nil,
		},
		Data: DataConfig{
			Dir:      "/data/issuemap",
			InMemory: false,
		},
	}
}
