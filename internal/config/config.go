package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	Overlay   OverlayConfig   `mapstructure:"overlay"`
	Thumbnail ThumbnailConfig `mapstructure:"thumbnail"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type GeocoderConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	Language       string `mapstructure:"language"`
	Attempts       int    `mapstructure:"attempts"`
	BackoffSeconds int    `mapstructure:"backoff_seconds"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type OverlayConfig struct {
	// MaxWidth caps the 16:9 canvas width in pixels.
	MaxWidth int `mapstructure:"max_width"`
	// Margin is the caption's distance from the bottom-right corner.
	Margin int `mapstructure:"margin"`
	// FontPaths is a prioritized list of TTF/OTF files to try for the
	// caption face. When none load, the embedded Go Regular face is used.
	FontPaths []string `mapstructure:"font_paths"`
}

type ThumbnailConfig struct {
	MaxSize     int `mapstructure:"max_size"`
	JPEGQuality int `mapstructure:"jpeg_quality"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "photo-tagger")
	v.SetDefault("geocoder.language", "en")
	v.SetDefault("geocoder.attempts", 2)
	v.SetDefault("geocoder.backoff_seconds", 2)
	v.SetDefault("geocoder.timeout_seconds", 30)
	v.SetDefault("overlay.max_width", 1920)
	v.SetDefault("overlay.margin", 30)
	v.SetDefault("overlay.font_paths", []string{
		"/System/Library/Fonts/Helvetica.ttc",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	})
	v.SetDefault("thumbnail.max_size", 300)
	v.SetDefault("thumbnail.jpeg_quality", 85)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: PHOTOTAGGER_GEOCODER_BASE_URL → geocoder.base_url
	v.SetEnvPrefix("PHOTOTAGGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Geocoder.BaseURL == "" {
		errs = append(errs, "geocoder.base_url is required")
	}
	if c.Geocoder.UserAgent == "" {
		errs = append(errs, "geocoder.user_agent is required")
	}
	if c.Geocoder.Attempts < 1 {
		errs = append(errs, fmt.Sprintf("geocoder.attempts must be at least 1, got %d", c.Geocoder.Attempts))
	}
	if c.Geocoder.BackoffSeconds < 0 {
		errs = append(errs, "geocoder.backoff_seconds must not be negative")
	}
	if c.Overlay.MaxWidth < 16 {
		errs = append(errs, fmt.Sprintf("overlay.max_width must be at least 16, got %d", c.Overlay.MaxWidth))
	}
	if c.Overlay.Margin < 0 {
		errs = append(errs, "overlay.margin must not be negative")
	}
	if c.Thumbnail.MaxSize <= 0 {
		errs = append(errs, fmt.Sprintf("thumbnail.max_size must be positive, got %d", c.Thumbnail.MaxSize))
	}
	if c.Thumbnail.JPEGQuality < 1 || c.Thumbnail.JPEGQuality > 100 {
		errs = append(errs, fmt.Sprintf("thumbnail.jpeg_quality must be 1-100, got %d", c.Thumbnail.JPEGQuality))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
