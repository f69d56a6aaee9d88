package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings
type Config struct {
	API   APIConfig   `yaml:"api"`
	Table TableConfig `yaml:"table"`
	Chart ChartConfig `yaml:"chart"`
}

// APIConfig describes the upstream pageviews endpoint
type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	Project    string `yaml:"project"`
	Access     string `yaml:"access"`
	Agents     string `yaml:"agents"`
	UserAgent  string `yaml:"user_agent"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Timeout returns the HTTP client timeout
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

// TableConfig controls the merged-series preview
type TableConfig struct {
	PreviewRows int `yaml:"preview_rows"`
}

// ChartConfig controls the quarterly chart rendering
type ChartConfig struct {
	Title       string `yaml:"title"`
	FirstColor  string `yaml:"first_color"`
	SecondColor string `yaml:"second_color"`
	OutputPath  string `yaml:"output_path"`
}

// LoadConfig loads configuration from a YAML file. Settings missing
// from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = "https://wikimedia.org/api/rest_v1/metrics/pageviews/per-article"
	cfg.API.Project = "en.wikipedia.org"
	cfg.API.Access = "all-access"
	cfg.API.Agents = "all-agents"
	cfg.API.UserAgent = "Mozilla/5.0 (compatible; WikiviewsBot/1.0)"
	cfg.API.TimeoutSec = 30
	cfg.Table.PreviewRows = 20
	cfg.Chart.Title = "Quarterly Average Daily Pageviews"
	cfg.Chart.FirstColor = "red"
	cfg.Chart.SecondColor = "blue"
	cfg.Chart.OutputPath = "pageviews_chart.html"
	return cfg
}
