package config

import (
	"fmt"
	"os"

	"ChartStack/internal/view"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Data struct {
		Dir            string `yaml:"dir"`
		DefaultDataset string `yaml:"default_dataset"`
		TickerFile     string `yaml:"ticker_file"`
	} `yaml:"data"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Update struct {
		Cron         string `yaml:"cron"`
		FallbackDays int    `yaml:"fallback_days"`
	} `yaml:"update"`
	Zoom struct {
		Intensity         float64 `yaml:"intensity"`
		MinWidth          float64 `yaml:"min_width"`
		MaxWidthScale     float64 `yaml:"max_width_scale"`
		MaxWidthFloor     float64 `yaml:"max_width_floor"`
		CorrectionEpsilon float64 `yaml:"correction_epsilon"`
	} `yaml:"zoom"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REMOTE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("REMOTE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("CRON_UPDATE"); v != "" {
		cfg.Update.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = "127.0.0.1:8000"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "stock_data"
	}
	if cfg.Data.TickerFile == "" {
		cfg.Data.TickerFile = "stock_data/dataset_tickers.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/chart_stack.db"
	}
	if cfg.Update.Cron == "" {
		cfg.Update.Cron = "0 30 18 * * 1-5"
	}
	if cfg.Update.FallbackDays == 0 {
		cfg.Update.FallbackDays = 730
	}

	defaults := view.DefaultZoomParams()
	if cfg.Zoom.Intensity == 0 {
		cfg.Zoom.Intensity = defaults.Intensity
	}
	if cfg.Zoom.MinWidth == 0 {
		cfg.Zoom.MinWidth = defaults.MinWidth
	}
	if cfg.Zoom.MaxWidthScale == 0 {
		cfg.Zoom.MaxWidthScale = defaults.MaxWidthScale
	}
	if cfg.Zoom.MaxWidthFloor == 0 {
		cfg.Zoom.MaxWidthFloor = defaults.MaxWidthFloor
	}
	if cfg.Zoom.CorrectionEpsilon == 0 {
		cfg.Zoom.CorrectionEpsilon = defaults.CorrectionEpsilon
	}

	return cfg, nil
}

// ZoomParams converts the zoom section into engine parameters.
func (c *Config) ZoomParams() view.ZoomParams {
	return view.ZoomParams{
		Intensity:         c.Zoom.Intensity,
		MinWidth:          c.Zoom.MinWidth,
		MaxWidthScale:     c.Zoom.MaxWidthScale,
		MaxWidthFloor:     c.Zoom.MaxWidthFloor,
		CorrectionEpsilon: c.Zoom.CorrectionEpsilon,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Zoom.Intensity <= 0 || c.Zoom.Intensity >= 1 {
		return fmt.Errorf("zoom.intensity must be in (0, 1)")
	}
	if c.Zoom.MinWidth <= 0 {
		return fmt.Errorf("zoom.min_width must be positive")
	}
	if c.Zoom.MaxWidthScale < 1 {
		return fmt.Errorf("zoom.max_width_scale must be >= 1")
	}
	return nil
}
