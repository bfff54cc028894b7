package tui

import (
	"log/slog"

	"github.com/atotto/clipboard"

	"github.com/Veraticus/search-term-analyzer/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Logger      *slog.Logger
	Clipboard   func(string) error
	DownloadDir string
	Width       int
	Height      int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Logger:      slog.Default(),
		Clipboard:   clipboard.WriteAll,
		DownloadDir: ".",
		Width:       120,
		Height:      40,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithLogger sets the logger used for background operations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(c *Config) {
		c.Clipboard = write
	}
}

// WithDownloadDir sets where downloaded spreadsheets are saved.
func WithDownloadDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.DownloadDir = dir
		}
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
