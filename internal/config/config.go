package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config holds every tunable of the service. Values come from the environment
// (upper-cased keys) and, when CONFIG_FILE names one, a config file underneath.
type Config struct {
	Port           string        `mapstructure:"port"`
	APIKey         string        `mapstructure:"gemini_api_key"`
	APIKeyParam    string        `mapstructure:"gemini_api_key_param"`
	Model          string        `mapstructure:"gemini_model"`
	Timeout        time.Duration `mapstructure:"gemini_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	MaxImagePixels int64         `mapstructure:"max_image_pixels"`
	Prompt         string        `mapstructure:"prompt"`
	LogLevel       string        `mapstructure:"log_level"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

const (
	DefaultModel          = "gemini-1.5-flash-latest"
	DefaultTimeout        = 100 * time.Second
	DefaultMaxUploadBytes = 10 << 20
	// DefaultMaxImagePixels matches the decompression-bomb limit common image libraries ship with.
	DefaultMaxImagePixels = 1024 * 1024 * 1024 / 4 / 3
)

var defaults = map[string]any{
	"config_file":          "",
	"port":                 "8080",
	"gemini_api_key":       "",
	"gemini_api_key_param": "",
	"gemini_model":         DefaultModel,
	"gemini_timeout":       DefaultTimeout.String(),
	"max_upload_bytes":     DefaultMaxUploadBytes,
	"max_image_pixels":     DefaultMaxImagePixels,
	"prompt":               "",
	"log_level":            "info",
	"allowed_origins":      "*",
}

func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("config_file")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.APIKeyParam = strings.TrimSpace(c.APIKeyParam)
	c.Model = strings.TrimSpace(c.Model)
	origins := c.AllowedOrigins[:0]
	for _, o := range c.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.AllowedOrigins = origins
}

func (c *Config) validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("gemini_model must not be empty"))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("gemini_timeout must not be negative, got %s", c.Timeout))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.MaxImagePixels <= 0 {
		errs = append(errs, fmt.Errorf("max_image_pixels must be positive, got %d", c.MaxImagePixels))
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("allowed_origins must name at least one origin"))
	}
	return errors.Join(errs...)
}

// AllowsAnyOrigin reports whether cross-origin requests are unrestricted.
func (c *Config) AllowsAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
