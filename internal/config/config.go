// Package config loads wlframe's configuration file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"deedles.dev/wlframe/internal/debug"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultTitle      = "wlframe"
	DefaultAppID      = "dev.deedles.wlframe"
	DefaultBackground = "#ffccbc"
	DefaultForeground = "#81d4fa"
	DefaultFormat     = "xrgb8888"
	DefaultLogLevel   = "info"

	// DefaultPoolSize is the minimum size of the shared memory pool.
	DefaultPoolSize = 32 << 20
)

// Config is the contents of the configuration file. Every field is
// optional.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Colors  ColorConfig   `yaml:"colors"`
	Buffer  BufferConfig  `yaml:"buffer"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	AppID  string `yaml:"app_id"`
}

// ColorConfig holds colors as either SVG color names, such as
// "lightsalmon", or hex triples, such as "#ffccbc".
type ColorConfig struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
}

type BufferConfig struct {
	Format   string `yaml:"format"`
	PoolSize int    `yaml:"pool_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	// Addr is the address to serve metrics on. Metrics are not served
	// if it is empty.
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			AppID:  DefaultAppID,
		},
		Colors: ColorConfig{
			Background: DefaultBackground,
			Foreground: DefaultForeground,
		},
		Buffer: BufferConfig{
			Format:   DefaultFormat,
			PoolSize: DefaultPoolSize,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Path returns the default location of the configuration file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wlframe", "config.yaml"), nil
}

// Load loads the configuration file at path. If path is empty, the
// file at the default location is used if it exists and the defaults
// are returned if it doesn't. A path that is given explicitly must
// exist.
func Load(path string) (*Config, error) {
	if path != "" {
		return loadFromPath(path)
	}

	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	cfg, err := loadFromPath(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func loadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %v: %w", path, err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("config %v: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %vx%v", c.Window.Width, c.Window.Height)
	}
	if c.Buffer.PoolSize < 0 {
		return fmt.Errorf("invalid pool size %v", c.Buffer.PoolSize)
	}

	switch c.Buffer.Format {
	case "argb8888", "xrgb8888":
	default:
		return fmt.Errorf("unsupported pixel format %q", c.Buffer.Format)
	}

	_, err := debug.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}

	_, err = ParseColor(c.Colors.Background)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	_, err = ParseColor(c.Colors.Foreground)
	if err != nil {
		return fmt.Errorf("foreground: %w", err)
	}

	return nil
}

// ParseColor parses a color name or a hex triple of the form #rrggbb
// or #rgb.
func ParseColor(v string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(v)]; ok {
		return c, nil
	}

	hex, ok := strings.CutPrefix(v, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q", v)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", v)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", v)
	}
	return color.RGBA{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
		A: 0xFF,
	}, nil
}
