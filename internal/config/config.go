// Package config loads process settings for the scoreboard server from
// defaults, an optional settings file, SCOREBOARD_* environment variables
// and command-line flags, in increasing order of precedence.
//
// These settings describe how the process runs (ports, tick cadence,
// database). The scoreboard layout itself lives in a separate TOML
// document handled by the compiler package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kai-65537/AOLOT-scoreboard/internal/logger"
)

// Setting keys, also used as flag names
const (
	KeyPort          = "port"
	KeyHost          = "host"
	KeyLogLevel      = "log-level"
	KeyTickInterval  = "tick-interval"
	KeyDB            = "db"
	KeyWatch         = "watch"
	KeyWatchDebounce = "watch-debounce"
	KeyKeyboard      = "keyboard"
	KeyOpenBrowser   = "open-browser"
	KeyDefaultConfig = "default-config"
	KeyPassword      = "control-password"
	KeySettingsFile  = "settings"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "SCOREBOARD"

// Settings holds process settings
type Settings struct {
	Port          int           `mapstructure:"port"`
	Host          string        `mapstructure:"host"`
	LogLevel      string        `mapstructure:"log-level"`
	TickInterval  time.Duration `mapstructure:"tick-interval"`
	DB            string        `mapstructure:"db"`
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch-debounce"`
	Keyboard      bool          `mapstructure:"keyboard"`
	OpenBrowser   bool          `mapstructure:"open-browser"`
	DefaultConfig string        `mapstructure:"default-config"`
	Password      string        `mapstructure:"control-password"`
}

// Defaults returns the built-in settings
func Defaults() Settings {
	return Settings{
		Port:          8081,
		LogLevel:      "info",
		TickInterval:  50 * time.Millisecond,
		DB:            "scoreboard.db",
		Watch:         true,
		WatchDebounce: 150 * time.Millisecond,
		Keyboard:      true,
		DefaultConfig: "basketball.toml",
	}
}

// NewViper returns a viper instance with defaults and environment
// binding applied
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeyHost, d.Host)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyTickInterval, d.TickInterval)
	v.SetDefault(KeyDB, d.DB)
	v.SetDefault(KeyWatch, d.Watch)
	v.SetDefault(KeyWatchDebounce, d.WatchDebounce)
	v.SetDefault(KeyKeyboard, d.Keyboard)
	v.SetDefault(KeyOpenBrowser, d.OpenBrowser)
	v.SetDefault(KeyDefaultConfig, d.DefaultConfig)
	v.SetDefault(KeyPassword, d.Password)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// RegisterFlags adds the serve flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.IntP(KeyPort, "p", d.Port, "HTTP server port")
	fs.String(KeyHost, d.Host, "HTTP listen host (empty for all interfaces)")
	fs.StringP(KeyLogLevel, "l", d.LogLevel, "log level (debug, info, warn, error)")
	fs.Duration(KeyTickInterval, d.TickInterval, "timer tick cadence (under 100ms)")
	fs.String(KeyDB, d.DB, "SQLite database for the load history (empty disables it)")
	fs.Bool(KeyWatch, d.Watch, "reload the configuration file when it changes")
	fs.Duration(KeyWatchDebounce, d.WatchDebounce, "quiet period before a watch reload")
	fs.Bool(KeyKeyboard, d.Keyboard, "read hotkeys from the terminal")
	fs.Bool(KeyOpenBrowser, d.OpenBrowser, "open the control page in a browser on start")
	fs.String(KeyDefaultConfig, d.DefaultConfig, "document loaded when no path is given")
	fs.String(KeyPassword, d.Password, "password for the control page and API (empty leaves them open)")
	fs.String(KeySettingsFile, "", "settings file (default scoreboard-settings.{yaml,toml} in the working directory)")
}

// Load reads the settings file (if any), binds fs and returns validated
// settings. fs may be nil.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Settings, error) {
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	if err := readSettingsFile(v, fs); err != nil {
		return nil, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// readSettingsFile picks the settings file: --settings, then
// SCOREBOARD_SETTINGS_FILE, then scoreboard-settings.* in the working
// directory. Only an explicitly named file is required to exist.
func readSettingsFile(v *viper.Viper, fs *pflag.FlagSet) error {
	explicit := ""
	if fs != nil {
		explicit, _ = fs.GetString(KeySettingsFile)
	}
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + "_SETTINGS_FILE")
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading settings file %s: %w", explicit, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName("scoreboard-settings")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading settings file: %w", err)
	}
	return nil
}

// Validate rejects out-of-range settings
func (s *Settings) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	if !logger.ValidLevel(s.LogLevel) {
		return fmt.Errorf("unknown log level %q", s.LogLevel)
	}
	if s.TickInterval <= 0 || s.TickInterval >= 100*time.Millisecond {
		return fmt.Errorf("tick-interval must be between 0 and 100ms, got %s", s.TickInterval)
	}
	if s.WatchDebounce < 0 {
		return fmt.Errorf("watch-debounce cannot be negative")
	}
	if strings.TrimSpace(s.DefaultConfig) == "" {
		return fmt.Errorf("default-config cannot be empty")
	}
	return nil
}

// Addr returns the listen address
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DisplayHost returns the host to show in URLs
func (s *Settings) DisplayHost() string {
	if s.Host == "" || s.Host == "0.0.0.0" {
		return "localhost"
	}
	return s.Host
}
