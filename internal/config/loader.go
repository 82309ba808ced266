package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading, watching, and hot-reloading.
type Loader struct {
	path     string
	config   *Config
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	onChange []func(*Config)
	ctx      context.Context
	cancel   context.CancelFunc
	errChan  chan error
}

// NewLoader creates a new configuration loader.
func NewLoader(path string) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		path:    path,
		errChan: make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Load reads and parses the configuration file.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg, err := loadConfigFromFile(l.path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	l.config = cfg
	return cfg, nil
}

// Config returns the current configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.config
}

// Watch starts watching the configuration file for changes.
// When changes are detected, the configuration is reloaded and
// registered callbacks are invoked.
func (l *Loader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	l.watcher = watcher

	// Watch the directory containing the config file; editors replace the
	// file rather than writing in place.
	dir := filepath.Dir(l.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go l.watchLoop()

	return nil
}

// watchLoop handles file system events.
func (l *Loader) watchLoop() {
	// Debounce timer to avoid multiple reloads for rapid changes
	var debounceTimer *time.Timer
	debounceDelay := 100 * time.Millisecond

	for {
		select {
		case <-l.ctx.Done():
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(l.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				l.reload()
			})

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			select {
			case l.errChan <- err:
			default:
			}
		}
	}
}

// reload attempts to reload the configuration. A file that fails to parse or
// validate leaves the previous configuration in place.
func (l *Loader) reload() {
	newCfg, err := loadConfigFromFile(l.path)
	if err != nil {
		select {
		case l.errChan <- fmt.Errorf("reload config: %w", err):
		default:
		}
		return
	}

	newCfg.ApplyEnvOverrides()

	if err := newCfg.Validate(); err != nil {
		select {
		case l.errChan <- fmt.Errorf("validate new config: %w", err):
		default:
		}
		return
	}

	l.mu.Lock()
	l.config = newCfg
	l.mu.Unlock()

	for _, cb := range l.onChange {
		cb(newCfg)
	}
}

// OnChange registers a callback to be invoked when the configuration changes.
func (l *Loader) OnChange(cb func(*Config)) {
	l.onChange = append(l.onChange, cb)
}

// Errors returns a channel for receiving errors that occur during watching.
func (l *Loader) Errors() <-chan error {
	return l.errChan
}

// Close stops the watcher and releases resources.
func (l *Loader) Close() error {
	l.cancel()
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}

// loadConfigFromFile reads and parses a config file based on its extension.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if no config file exists
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()

	ext := filepath.Ext(path)
	switch ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if err := autoDetectAndParse(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	return cfg, nil
}

// autoDetectAndParse attempts to parse the config in multiple formats.
func autoDetectAndParse(data []byte, cfg *Config) error {
	// Try TOML first (most common)
	if _, err := toml.Decode(string(data), cfg); err == nil {
		return nil
	}

	if err := json.Unmarshal(data, cfg); err == nil {
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err == nil {
		return nil
	}

	return fmt.Errorf("unable to parse config file (tried TOML, JSON, YAML)")
}

// SaveConfig writes a configuration to disk as TOML.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// LoadOrCreate loads the configuration from the specified path,
// creating a default configuration file if it doesn't exist.
func LoadOrCreate(path string) (*Config, bool, error) {
	if path == "" {
		path = ConfigPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, path); err != nil {
			return nil, false, fmt.Errorf("create default config: %w", err)
		}
		return cfg, true, nil
	}

	loader := NewLoader(path)
	cfg, err := loader.Load()
	if err != nil {
		return nil, false, err
	}

	return cfg, false, nil
}
