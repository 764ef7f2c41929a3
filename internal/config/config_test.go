package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:8000" {
		t.Errorf("listen addr = %q", cfg.Server.ListenAddr)
	}
	if cfg.Data.Dir != "stock_data" {
		t.Errorf("data dir = %q", cfg.Data.Dir)
	}
	if cfg.Update.FallbackDays != 730 {
		t.Errorf("fallback days = %d", cfg.Update.FallbackDays)
	}
	if cfg.Zoom.Intensity != 0.22 {
		t.Errorf("zoom intensity = %v", cfg.Zoom.Intensity)
	}
	if cfg.Zoom.MinWidth != 8 {
		t.Errorf("zoom min width = %v", cfg.Zoom.MinWidth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  listen_addr: "0.0.0.0:9000"
data:
  dir: "/tmp/chart-data"
  default_dataset: "KOSPI_daily"
zoom:
  intensity: 0.35
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LISTEN_ADDR", "127.0.0.1:7777")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:7777" {
		t.Errorf("env override lost: %q", cfg.Server.ListenAddr)
	}
	if cfg.Data.DefaultDataset != "KOSPI_daily" {
		t.Errorf("default dataset = %q", cfg.Data.DefaultDataset)
	}
	if cfg.Zoom.Intensity != 0.35 {
		t.Errorf("zoom intensity = %v", cfg.Zoom.Intensity)
	}
	// Unset fields still pick up defaults.
	if cfg.Zoom.MinWidth != 8 {
		t.Errorf("zoom min width = %v", cfg.Zoom.MinWidth)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing data dir", func(c *Config) { c.Data.Dir = "" }},
		{"intensity too high", func(c *Config) { c.Zoom.Intensity = 1.5 }},
		{"negative min width", func(c *Config) { c.Zoom.MinWidth = -1 }},
		{"max width scale below one", func(c *Config) { c.Zoom.MaxWidthScale = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestZoomParamsConversion(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	params := cfg.ZoomParams()
	if params.Intensity != cfg.Zoom.Intensity || params.CorrectionEpsilon != cfg.Zoom.CorrectionEpsilon {
		t.Errorf("params = %+v", params)
	}
}
