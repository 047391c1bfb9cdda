package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/user/warrant_analyzer_go/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SiteConfig holds the intersection parameters
type SiteConfig struct {
	MajorAxis  string  `mapstructure:"major_axis"`
	SpeedLimit float64 `mapstructure:"speed_limit"`
	Speed85th  float64 `mapstructure:"speed_85th"`
	Population int     `mapstructure:"population"`
	LanesMajor int     `mapstructure:"lanes_major"`
	LanesMinor int     `mapstructure:"lanes_minor"`
}

// InputConfig holds count file settings
type InputConfig struct {
	File             string `mapstructure:"file"`
	IntervalsPerHour int    `mapstructure:"intervals_per_hour"`
}

// OutputConfig holds report destinations. Empty paths are skipped.
type OutputConfig struct {
	PDF       string `mapstructure:"pdf"`
	JSON      string `mapstructure:"json"`
	ChartsDir string `mapstructure:"charts_dir"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. An empty
// path uses defaults and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// WARRANT_SITE_POPULATION overrides site.population, and so on.
	v.SetEnvPrefix("WARRANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("site.major_axis", "NS")
	v.SetDefault("site.speed_limit", 40)
	v.SetDefault("site.speed_85th", 40)
	v.SetDefault("site.population", 10000)
	v.SetDefault("site.lanes_major", 1)
	v.SetDefault("site.lanes_minor", 1)

	v.SetDefault("input.file", "")
	v.SetDefault("input.intervals_per_hour", 4)

	v.SetDefault("output.pdf", "warrant_report.pdf")
	v.SetDefault("output.json", "")
	v.SetDefault("output.charts_dir", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if _, err := models.ParseAxis(c.Site.MajorAxis); err != nil {
		return fmt.Errorf("site.major_axis must be NS or EW: %w", err)
	}
	if c.Site.SpeedLimit <= 0 {
		return fmt.Errorf("site.speed_limit must be positive")
	}
	if c.Site.Speed85th <= 0 {
		return fmt.Errorf("site.speed_85th must be positive")
	}
	if c.Site.Population < 0 {
		return fmt.Errorf("site.population must not be negative")
	}
	if c.Site.LanesMajor < 1 {
		return fmt.Errorf("site.lanes_major must be at least 1")
	}
	if c.Site.LanesMinor < 1 {
		return fmt.Errorf("site.lanes_minor must be at least 1")
	}

	if c.Input.IntervalsPerHour < 1 {
		return fmt.Errorf("input.intervals_per_hour must be at least 1")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// SiteParameters converts the site section into the engine's typed parameters.
func (c *Config) SiteParameters() (models.SiteParameters, error) {
	axis, err := models.ParseAxis(c.Site.MajorAxis)
	if err != nil {
		return models.SiteParameters{}, err
	}
	return models.SiteParameters{
		MajorAxis:  axis,
		SpeedLimit: c.Site.SpeedLimit,
		Speed85th:  c.Site.Speed85th,
		Population: c.Site.Population,
		LanesMajor: c.Site.LanesMajor,
		LanesMinor: c.Site.LanesMinor,
	}, nil
}
