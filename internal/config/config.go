package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds render, editor and output settings.
type Config struct {
	LogLevel  string `mapstructure:"logLevel"`
	OutputDir string `mapstructure:"outputDir"`

	Viewport  SizeConfig `mapstructure:"viewport"`
	Thumbnail SizeConfig `mapstructure:"thumbnail"`

	BoneRadius   float64 `mapstructure:"boneRadius"`
	MaxKeyframes int     `mapstructure:"maxKeyframes"`
	Supersample  int     `mapstructure:"supersample"`
	FPS          float64 `mapstructure:"fps"`
	Workers      int     `mapstructure:"workers"`
}

// SizeConfig is a pixel size.
type SizeConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("outputDir", "renders")

	v.SetDefault("viewport.width", 800)
	v.SetDefault("viewport.height", 600)
	v.SetDefault("thumbnail.width", 260)
	v.SetDefault("thumbnail.height", 195)

	v.SetDefault("boneRadius", 0.07)
	v.SetDefault("maxKeyframes", 64)
	v.SetDefault("supersample", 2)
	v.SetDefault("fps", 30)
	v.SetDefault("workers", 0)
}

// Load reads the config file at path (YAML or JSON by extension) on top of
// the defaults. An empty path yields the defaults alone.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	LogLevel  string
	OutputDir string
	FPS       float64
	Workers   int
}

// Resolve applies non-zero flags and fills remaining gaps with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		c.Viewport = SizeConfig{Width: 800, Height: 600}
	}
	if c.Thumbnail.Width <= 0 || c.Thumbnail.Height <= 0 {
		c.Thumbnail = SizeConfig{Width: 260, Height: 195}
	}
	if c.BoneRadius <= 0 {
		c.BoneRadius = 0.07
	}
	if c.MaxKeyframes <= 0 {
		c.MaxKeyframes = 64
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
