// Package config handles configuration loading and validation for smartinput.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"smartinput/internal/logging"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete daemon configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Input configures the state machine.
	Input InputConfig `toml:"input" json:"input" yaml:"input"`

	// Dictionary configures the pinyin-to-Hanzi tables.
	Dictionary DictionaryConfig `toml:"dictionary" json:"dictionary" yaml:"dictionary"`

	// UI configures the candidate popup worker.
	UI UIConfig `toml:"ui" json:"ui" yaml:"ui"`

	// Tray configures the system tray icon.
	Tray TrayConfig `toml:"tray" json:"tray" yaml:"tray"`

	// Logging configures log output.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// IPC configures the control socket.
	IPC IPCConfig `toml:"ipc" json:"ipc" yaml:"ipc"`
}

// InputConfig holds state machine settings.
type InputConfig struct {
	// TopK is how many candidates to offer, at most. Digit selection only
	// ever reaches the first five regardless.
	TopK int `toml:"top_k" json:"top_k" yaml:"top_k"`
}

// DictionaryConfig holds dictionary settings.
type DictionaryConfig struct {
	// UserDictPath is an optional JSON dictionary merged over the embedded
	// base table. Validated against the dictionary schema before use.
	UserDictPath string `toml:"user_dict_path" json:"user_dict_path" yaml:"user_dict_path"`

	// WatchUserDict reloads the user dictionary when the file changes.
	WatchUserDict bool `toml:"watch_user_dict" json:"watch_user_dict" yaml:"watch_user_dict"`

	// StorePath is the SQLite database holding learned selections.
	StorePath string `toml:"store_path" json:"store_path" yaml:"store_path"`

	// Learn records candidate selections so they rank higher later.
	Learn bool `toml:"learn" json:"learn" yaml:"learn"`
}

// UIConfig holds popup worker settings.
type UIConfig struct {
	// QueueSize bounds the presentation FIFO. Oldest states are dropped
	// on overflow.
	QueueSize int `toml:"queue_size" json:"queue_size" yaml:"queue_size"`
}

// TrayConfig holds tray icon settings.
type TrayConfig struct {
	// Enabled turns the tray icon on.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Tooltip is the hover text.
	Tooltip string `toml:"tooltip" json:"tooltip" yaml:"tooltip"`

	// PinyinIconPath and EnglishIconPath point at PNG icon files. When
	// missing or unreadable, a drawn fallback icon is used.
	PinyinIconPath  string `toml:"pinyin_icon_path" json:"pinyin_icon_path" yaml:"pinyin_icon_path"`
	EnglishIconPath string `toml:"english_icon_path" json:"english_icon_path" yaml:"english_icon_path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level    string `toml:"level" json:"level" yaml:"level"`
	Format   string `toml:"format" json:"format" yaml:"format"`
	Output   string `toml:"output" json:"output" yaml:"output"`
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// IPCConfig holds control socket settings.
type IPCConfig struct {
	// Enabled turns the control socket on.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// SocketPath is the Unix socket the daemon listens on.
	SocketPath string `toml:"socket_path" json:"socket_path" yaml:"socket_path"`
}

// SmartInputDir returns the per-user smartinput directory.
func SmartInputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".smartinput"
	}
	return filepath.Join(home, ".smartinput")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(SmartInputDir(), "config.toml")
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	dir := SmartInputDir()
	return &Config{
		Version: Version,
		Input: InputConfig{
			TopK: 5,
		},
		Dictionary: DictionaryConfig{
			UserDictPath:  filepath.Join(dir, "user_dict.json"),
			WatchUserDict: true,
			StorePath:     filepath.Join(dir, "learned.db"),
			Learn:         true,
		},
		UI: UIConfig{
			QueueSize: 64,
		},
		Tray: TrayConfig{
			Enabled: true,
			Tooltip: "SmartInput",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "stderr",
			FilePath: logging.DefaultLogPath(),
		},
		IPC: IPCConfig{
			Enabled:    true,
			SocketPath: filepath.Join(dir, "smartinput.sock"),
		},
	}
}

// Validate checks the configuration for nonsense values.
func (c *Config) Validate() error {
	var errs []error

	if c.Version <= 0 {
		errs = append(errs, fmt.Errorf("version must be positive, got %d", c.Version))
	}
	if c.Input.TopK <= 0 || c.Input.TopK > 10 {
		errs = append(errs, fmt.Errorf("input.top_k must be in 1..10, got %d", c.Input.TopK))
	}
	if c.UI.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("ui.queue_size must be positive, got %d", c.UI.QueueSize))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		errs = append(errs, fmt.Errorf("logging.format: %w", err))
	}
	switch strings.ToLower(c.Logging.Output) {
	case "", "stdout", "stderr", "file", "both":
	default:
		errs = append(errs, fmt.Errorf("logging.output must be stdout, stderr, file or both, got %q", c.Logging.Output))
	}
	if c.IPC.Enabled && c.IPC.SocketPath == "" {
		errs = append(errs, errors.New("ipc.socket_path must be set when ipc is enabled"))
	}

	return errors.Join(errs...)
}

// ApplyEnvOverrides lets a few environment variables override file values,
// mainly for development runs.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SMARTINPUT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SMARTINPUT_LOG_OUTPUT"); v != "" {
		c.Logging.Output = v
	}
	if v := os.Getenv("SMARTINPUT_SOCKET"); v != "" {
		c.IPC.SocketPath = v
	}
	if v := os.Getenv("SMARTINPUT_USER_DICT"); v != "" {
		c.Dictionary.UserDictPath = v
	}
}

// LoggingSetup converts the logging section into a logging.Config.
func (c *Config) LoggingSetup() (*logging.Config, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, err
	}
	return &logging.Config{
		Level:     level,
		Format:    format,
		Output:    c.Logging.Output,
		FilePath:  c.Logging.FilePath,
		Component: "smartinput",
	}, nil
}
