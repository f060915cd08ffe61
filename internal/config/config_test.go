package config

import (
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	if cfg.MaxRetries != 3 {
		t.Errorf("expected default MaxRetries 3, got %d", cfg.MaxRetries)
	}

	if cfg.InitialDelay != time.Second {
		t.Errorf("expected default InitialDelay 1s, got %v", cfg.InitialDelay)
	}

	if cfg.MaxImageEdge != 1024 {
		t.Errorf("expected default MaxImageEdge 1024, got %d", cfg.MaxImageEdge)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.EndpointURL = "" }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"negative delay", func(c *Config) { c.InitialDelay = -time.Second }},
		{"zero edge", func(c *Config) { c.MaxImageEdge = 0 }},
		{"quality too high", func(c *Config) { c.JPEGQuality = 101 }},
		{"quality too low", func(c *Config) { c.JPEGQuality = 0 }},
		{"unknown backend", func(c *Config) { c.TranslateBackend = "bard" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
