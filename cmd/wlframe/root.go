package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	wl "deedles.dev/wlframe/client"
	"deedles.dev/wlframe/internal/config"
	"deedles.dev/wlframe/internal/debug"
	"deedles.dev/wlframe/internal/metrics"
	"deedles.dev/wlframe/internal/scene"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var (
	configPath string
	cfg        *config.Config

	flags struct {
		width, height int
		title, appID  string
		bg, fg        string
		format        string
		logLevel      string
		metricsAddr   string
	}
)

var rootCmd = &cobra.Command{
	Use:   "wlframe",
	Short: "Draw on a Wayland window",
	Long: `wlframe opens a window on the Wayland compositor given by
$WAYLAND_DISPLAY and leaves a square wherever the pointer is pressed or
dragged. Set $WAYLAND_DEBUG=1 to log every request and event.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		err = applyFlags(cmd, c)
		if err != nil {
			return err
		}
		cfg = c

		debug.SetLevel(cfg.Log.Level)
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to the config file (default $XDG_CONFIG_HOME/wlframe/config.yaml)")
	pf.StringVar(&flags.logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error); trace logs every request and event")

	f := rootCmd.Flags()
	f.IntVar(&flags.width, "width", config.DefaultWidth, "initial window width")
	f.IntVar(&flags.height, "height", config.DefaultHeight, "initial window height")
	f.StringVar(&flags.title, "title", config.DefaultTitle, "window title")
	f.StringVar(&flags.appID, "app-id", config.DefaultAppID, "application ID")
	f.StringVar(&flags.bg, "background", config.DefaultBackground, "background color name or #rrggbb")
	f.StringVar(&flags.fg, "foreground", config.DefaultForeground, "square color name or #rrggbb")
	f.StringVar(&flags.format, "format", config.DefaultFormat, "pixel format (xrgb8888, argb8888)")
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	rootCmd.AddCommand(globalsCmd)
}

// applyFlags overrides c with the flags that were set explicitly.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("width") {
		c.Window.Width = flags.width
	}
	if changed("height") {
		c.Window.Height = flags.height
	}
	if changed("title") {
		c.Window.Title = flags.title
	}
	if changed("app-id") {
		c.Window.AppID = flags.appID
	}
	if changed("background") {
		c.Colors.Background = flags.bg
	}
	if changed("foreground") {
		c.Colors.Foreground = flags.fg
	}
	if changed("format") {
		c.Buffer.Format = flags.format
	}
	if changed("log-level") {
		c.Log.Level = flags.logLevel
	}
	if changed("metrics-addr") {
		c.Metrics.Addr = flags.metricsAddr
	}

	err := c.Validate()
	if err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func run(ctx context.Context) error {
	bg, err := config.ParseColor(cfg.Colors.Background)
	if err != nil {
		return err
	}
	fg, err := config.ParseColor(cfg.Colors.Foreground)
	if err != nil {
		return err
	}
	format, err := wl.ParseFormat(cfg.Buffer.Format)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		srv, err := m.Listen(cfg.Metrics.Addr)
		if err != nil {
			return fmt.Errorf("serve metrics: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	s := scene.New(bg, fg)
	display, err := wl.Connect(wl.Config{
		Width:    cfg.Window.Width,
		Height:   cfg.Window.Height,
		Title:    cfg.Window.Title,
		AppID:    cfg.Window.AppID,
		Format:   format,
		PoolSize: cfg.Buffer.PoolSize,
		Paint: func(pix []byte, width, height int, ptr wl.PointerState) {
			s.Paint(pix, width, height)
		},
		Pointer: s.Add,
		Metrics: m,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, unix.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		display.Close()
	}()

	err = display.Run()
	if err != nil {
		return err
	}
	debug.Info().Int("entities", len(s.Entities())).Msg("window closed")
	return nil
}
