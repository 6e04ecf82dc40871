package config

import (
	"errors"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/colornames"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `window:
  width: 1024
  title: frame
colors:
  background: navy
buffer:
  format: argb8888
metrics:
  addr: localhost:9090
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Window.Width != 1024 || cfg.Window.Height != DefaultHeight {
		t.Errorf("size %vx%v", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Title != "frame" || cfg.Window.AppID != DefaultAppID {
		t.Errorf("title %q, app ID %q", cfg.Window.Title, cfg.Window.AppID)
	}
	if cfg.Colors.Background != "navy" || cfg.Colors.Foreground != DefaultForeground {
		t.Errorf("colors %+v", cfg.Colors)
	}
	if cfg.Buffer.Format != "argb8888" || cfg.Buffer.PoolSize != DefaultPoolSize {
		t.Errorf("buffer %+v", cfg.Buffer)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("log level %q", cfg.Log.Level)
	}
	if cfg.Metrics.Addr != "localhost:9090" {
		t.Errorf("metrics address %q", cfg.Metrics.Addr)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Fatalf("config %+v", cfg)
	}

	path := filepath.Join(dir, "wlframe", "config.yaml")
	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(path, []byte("window:\n  height: 100\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Height != 100 {
		t.Fatalf("height %v", cfg.Window.Height)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Syntax", "window: [\n"},
		{"Size", "window:\n  width: 0\n"},
		{"Format", "buffer:\n  format: rgb565\n"},
		{"PoolSize", "buffer:\n  pool_size: -1\n"},
		{"Color", "colors:\n  foreground: notacolor\n"},
		{"LogLevel", "log:\n  level: verbose\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, test.content))
			if err == nil {
				t.Fatal("loaded an invalid config")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in  string
		out color.RGBA
		ok  bool
	}{
		{"#ffccbc", color.RGBA{0xFF, 0xCC, 0xBC, 0xFF}, true},
		{"#81D4FA", color.RGBA{0x81, 0xD4, 0xFA, 0xFF}, true},
		{"#fff", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, true},
		{"LightSalmon", colornames.Lightsalmon, true},
		{"#12345", color.RGBA{}, false},
		{"#gggggg", color.RGBA{}, false},
		{"ffccbc", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}

	for _, test := range tests {
		c, err := ParseColor(test.in)
		if (err == nil) != test.ok {
			t.Errorf("ParseColor(%q): %v", test.in, err)
			continue
		}
		if c != test.out {
			t.Errorf("ParseColor(%q) = %v, expected %v", test.in, c, test.out)
		}
	}
}
