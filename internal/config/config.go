// Application configuration loaded from an optional TOML file
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"fourier-image-filter/internal/algorithms"
)

// Config is the root of the TOML document
type Config struct {
	Filter  FilterConfig  `toml:"filter"`
	Preview PreviewConfig `toml:"preview"`
	Log     LogConfig     `toml:"log"`
}

// FilterConfig holds the initial control values
type FilterConfig struct {
	Mode      string `toml:"mode"`
	Radius    int    `toml:"radius"`
	MinRadius int    `toml:"min_radius"`
	MaxRadius int    `toml:"max_radius"`
	Profile   string `toml:"profile"`
}

// PreviewConfig controls live preview scheduling and display sizes
type PreviewConfig struct {
	DelayMS       int `toml:"delay_ms"`
	ThumbnailSize int `toml:"thumbnail_size"`
	DisplaySize   int `toml:"display_size"`
}

// LogConfig selects logrus level and formatter ("text" or "json")
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the settings the application uses without a config file
func Default() Config {
	return Config{
		Filter: FilterConfig{
			Mode:      algorithms.ModeLowPass.String(),
			Radius:    algorithms.RadiusDefault,
			MinRadius: algorithms.RadiusMin,
			MaxRadius: algorithms.RadiusMax,
			Profile:   algorithms.ProfileIdeal.String(),
		},
		Preview: PreviewConfig{
			DelayMS:       200,
			ThumbnailSize: 200,
			DisplaySize:   400,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enum values
func (c Config) Validate() error {
	if _, err := c.FilterSpec(); err != nil {
		return err
	}
	if c.Filter.MinRadius < 1 || c.Filter.MaxRadius < c.Filter.MinRadius {
		return fmt.Errorf("radius range [%d, %d] is invalid", c.Filter.MinRadius, c.Filter.MaxRadius)
	}
	if c.Filter.Radius < c.Filter.MinRadius || c.Filter.Radius > c.Filter.MaxRadius {
		return fmt.Errorf("%w: %d outside [%d, %d]", algorithms.ErrInvalidRadius,
			c.Filter.Radius, c.Filter.MinRadius, c.Filter.MaxRadius)
	}
	if c.Preview.DelayMS < 0 {
		return fmt.Errorf("preview delay_ms must not be negative: %d", c.Preview.DelayMS)
	}
	if c.Preview.ThumbnailSize <= 0 || c.Preview.DisplaySize <= 0 {
		return fmt.Errorf("preview sizes must be positive: thumbnail=%d display=%d",
			c.Preview.ThumbnailSize, c.Preview.DisplaySize)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// FilterSpec converts the filter section into the initial FilterSpec
func (c Config) FilterSpec() (algorithms.FilterSpec, error) {
	mode, err := algorithms.ParseMode(c.Filter.Mode)
	if err != nil {
		return algorithms.FilterSpec{}, err
	}
	profile, err := algorithms.ParseProfile(c.Filter.Profile)
	if err != nil {
		return algorithms.FilterSpec{}, err
	}
	spec := algorithms.FilterSpec{Mode: mode, Radius: c.Filter.Radius, Profile: profile}
	return spec, spec.Validate()
}

// PreviewDelay returns the debounce delay
func (c Config) PreviewDelay() time.Duration {
	return time.Duration(c.Preview.DelayMS) * time.Millisecond
}
