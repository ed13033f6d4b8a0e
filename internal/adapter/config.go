package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// StoreType selects where the browse session is kept
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeBolt   StoreType = "bolt"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Session SessionConfig `mapstructure:"session"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig points at the two catalog files (JSON or CSV)
type CatalogConfig struct {
	Video string `mapstructure:"video"`
	Audio string `mapstructure:"audio"`
}

// SessionConfig holds browse-session persistence settings
type SessionConfig struct {
	Store StoreType `mapstructure:"store" validate:"oneof=memory bolt"`
	Path  string    `mapstructure:"path" validate:"required_if=Store bolt"`
	TabID string    `mapstructure:"tab_id"` // Empty: derive from the terminal
	Keep  bool      `mapstructure:"keep"`   // Keep this tab's state after quitting
}

// UIConfig holds UI configuration
type UIConfig struct {
	RowHeight int `mapstructure:"row_height" validate:"gte=1,lte=10"` // Terminal lines per album row
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Video: "",
			Audio: "",
		},
		Session: SessionConfig{
			Store: StoreTypeBolt,
			Path:  defaultSessionPath(),
		},
		UI: UIConfig{
			RowHeight: 3,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "albumshelf", "albumshelf.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "albumshelf", "albumshelf.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "albumshelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "albumshelf")
	}
}

// defaultSessionPath returns the default session database path for the current OS
func defaultSessionPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "albumshelf", "session.db")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "albumshelf", "session.db")
	}
}

// LoadConfig loads configuration from file and environment. An empty path
// searches the default config directory and the working directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. ALBUMSHELF_SESSION_STORE
	v.SetEnvPrefix("ALBUMSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Catalog.Video = expandHome(cfg.Catalog.Video)
	cfg.Catalog.Audio = expandHome(cfg.Catalog.Audio)
	cfg.Session.Path = expandHome(cfg.Session.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindKeys registers every key so AutomaticEnv can override keys that the
// config file never mentions.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"catalog.video", "catalog.audio",
		"session.store", "session.path", "session.tab_id", "session.keep",
		"ui.row_height",
		"logging.file", "logging.level",
	} {
		_ = v.BindEnv(key)
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s (%s=%v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}

// SaveConfig writes cfg to path, or to the default location when path is empty
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v := viper.New()
	v.Set("catalog.video", cfg.Catalog.Video)
	v.Set("catalog.audio", cfg.Catalog.Audio)
	v.Set("session.store", string(cfg.Session.Store))
	v.Set("session.path", cfg.Session.Path)
	v.Set("session.tab_id", cfg.Session.TabID)
	v.Set("session.keep", cfg.Session.Keep)
	v.Set("ui.row_height", cfg.UI.RowHeight)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// ClearSessions removes the session database, forgetting every tab
func ClearSessions(cfg *Config) error {
	if err := os.Remove(cfg.Session.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
