package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/search-term-analyzer/internal/backend"
	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by viper.
const EnvPrefix = "STA"

// Config keys.
const (
	KeyBaseURL       = "server.base_url"
	KeyTimeout       = "server.timeout"
	KeyPingRetries   = "server.ping_retries"
	KeyDownloadDir   = "download.dir"
	KeyTheme         = "tui.theme"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
	KeyLogFile       = "logging.file"
	defaultRetries   = 3
	defaultThemeName = "default"
)

// Settings is the resolved application configuration.
type Settings struct {
	Server      ServerSettings
	DownloadDir string
	Theme       string
	LogLevel    string
	LogFormat   string
	LogFile     string
}

// ServerSettings configures the classification service client.
type ServerSettings struct {
	BaseURL     string
	Timeout     time.Duration
	PingRetries int
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, backend.DefaultBaseURL)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyPingRetries, defaultRetries)
	v.SetDefault(KeyDownloadDir, ".")
	v.SetDefault(KeyTheme, defaultThemeName)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// BindEnv makes v read STA_SERVER_BASE_URL style variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads variables from .env files into the process environment
// without overriding variables already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(ExpandPath(p)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("No .env file found", "path", p)
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load resolves and validates the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Server: ServerSettings{
			BaseURL:     strings.TrimSpace(v.GetString(KeyBaseURL)),
			Timeout:     v.GetDuration(KeyTimeout),
			PingRetries: v.GetInt(KeyPingRetries),
		},
		DownloadDir: ExpandPath(v.GetString(KeyDownloadDir)),
		Theme:       v.GetString(KeyTheme),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		LogFile:     ExpandPath(v.GetString(KeyLogFile)),
	}

	if s.Server.Timeout < 0 {
		return Settings{}, fmt.Errorf("%w: %s cannot be negative", common.ErrInvalidConfig, KeyTimeout)
	}
	if s.Server.PingRetries < 0 {
		return Settings{}, fmt.Errorf("%w: %s cannot be negative", common.ErrInvalidConfig, KeyPingRetries)
	}
	if _, err := common.ParseLevel(s.LogLevel); err != nil {
		return Settings{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	return s, nil
}

// BackendConfig converts the server settings into a client configuration.
func (s ServerSettings) BackendConfig(logger *slog.Logger) backend.Config {
	return backend.Config{
		BaseURL:     s.BaseURL,
		Timeout:     s.Timeout,
		PingRetries: s.PingRetries,
		Logger:      logger,
	}
}
