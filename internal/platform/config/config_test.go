package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want info/json", cfg.Log)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled = true, want false by default")
	}
	if cfg.Learner.Locale != "en" {
		t.Errorf("Learner.Locale = %q, want en", cfg.Learner.Locale)
	}
	if cfg.CatalogPath != "./catalog" {
		t.Errorf("CatalogPath = %q, want ./catalog", cfg.CatalogPath)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LEARN_SERVER_PORT", "9090")
	t.Setenv("LEARN_LMS_BASE_URL", "https://lms.example.com")
	t.Setenv("LEARN_LMS_TOKEN", "secret")
	t.Setenv("LEARN_CACHE_ENABLED", "true")
	t.Setenv("LEARN_EVENTS_ENABLED", "1")
	t.Setenv("LEARN_LEARNER_LOCALE", "ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.LMS.BaseURL != "https://lms.example.com" || cfg.LMS.Token != "secret" {
		t.Errorf("LMS = %+v", cfg.LMS)
	}
	if !cfg.Cache.Enabled || !cfg.Events.Enabled {
		t.Error("boolean flags not parsed")
	}
	if cfg.Learner.Locale != "ms" {
		t.Errorf("Learner.Locale = %q, want ms", cfg.Learner.Locale)
	}
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("LEARN_SERVER_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want fallback 8080", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing base URL", func(c *Config) { c.LMS.BaseURL = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"events without database", func(c *Config) {
			c.Events.Enabled = true
			c.Database.URL = ""
		}, true},
		{"text format", func(c *Config) { c.Log.Format = "text" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
