// Package config holds the application configuration loaded through Viper.
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	instance *Config
	once     sync.Once
)

// Config is the root configuration structure for the boxkit commands.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Viewport ViewportConfig `mapstructure:"viewport"`
	Fonts    FontsConfig    `mapstructure:"fonts"`
	Render   RenderConfig   `mapstructure:"render"`
	Viewer   ViewerConfig   `mapstructure:"viewer"`
}

// ColorConfig defines the console color of each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" json:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" json:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" json:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" json:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" json:"fatal" yaml:"fatal"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// ViewportConfig is the size of the render target in pixels.
type ViewportConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// FontConfig points a family at a TrueType file.
type FontConfig struct {
	Path string  `mapstructure:"path"`
	Size float64 `mapstructure:"size"`
}

// FontsConfig lists the font families available to documents.
type FontsConfig struct {
	Default     string                `mapstructure:"default"`
	LineSpacing float64               `mapstructure:"line_spacing"`
	Families    map[string]FontConfig `mapstructure:"families"`
	// TextureRoot is the directory relative image references resolve
	// against.
	TextureRoot string `mapstructure:"texture_root"`
}

// RenderConfig holds settings for the frame pipeline.
type RenderConfig struct {
	Debug      bool   `mapstructure:"debug"`
	ClearColor string `mapstructure:"clear_color"`
}

// ViewerConfig holds settings for the live viewer.
type ViewerConfig struct {
	TickRate time.Duration `mapstructure:"tick_rate"`
	Title    string        `mapstructure:"title"`
}

// Defaults registers the default value of every setting.
func Defaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "boxkit")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("viewport.width", 800)
	v.SetDefault("viewport.height", 600)

	v.SetDefault("fonts.default", "small")
	v.SetDefault("fonts.line_spacing", 1.0)

	v.SetDefault("render.debug", false)
	v.SetDefault("render.clear_color", "white")

	v.SetDefault("viewer.tick_rate", 16*time.Millisecond)
	v.SetDefault("viewer.title", "boxview")
}

// New unmarshals a Config from v without touching the singleton.
func New(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Fonts.LineSpacing < 0 {
		return fmt.Errorf("fonts.line_spacing must not be negative, got %v", c.Fonts.LineSpacing)
	}
	for name, f := range c.Fonts.Families {
		if f.Path != "" && f.Size <= 0 {
			return fmt.Errorf("font %q: size must be positive", name)
		}
	}
	if c.Viewer.TickRate < 0 {
		return fmt.Errorf("viewer.tick_rate must not be negative")
	}
	return nil
}

// Load initializes the configuration singleton from Viper.
func Load(v *viper.Viper) error {
	var loadErr error
	once.Do(func() {
		cfg, err := New(v)
		if err != nil {
			loadErr = err
			return
		}
		instance = cfg
	})
	return loadErr
}

// Get returns the loaded configuration instance.
func Get() *Config {
	if instance == nil {
		panic("Configuration not initialized. Call config.Load() in the root command.")
	}
	return instance
}
