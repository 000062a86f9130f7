package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	perrors "github.com/zhubert/recall/internal/errors"
)

const (
	// DefaultFetchTimeoutSeconds bounds the sidebar's session fetch.
	DefaultFetchTimeoutSeconds = 10

	dirName      = ".recall"
	fileName     = "config.json"
	databaseName = "sessions.db"
)

// Config holds the application configuration
type Config struct {
	ActorID              string `json:"actor_id"`                        // Identity whose sessions are listed
	DatabasePath         string `json:"database_path,omitempty"`         // SQLite session store; defaults under ~/.recall
	Theme                string `json:"theme,omitempty"`                 // UI theme name (e.g., "dark-purple", "nord")
	ShowLoading          bool   `json:"show_loading"`                    // Render the sidebar loading indicator
	FetchTimeoutSeconds  int    `json:"fetch_timeout_seconds,omitempty"` // Upper bound on a session list fetch
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notification when sessions fail to load
	ProfileName          string `json:"profile_name,omitempty"`
	ProfilePlan          string `json:"profile_plan,omitempty"`

	mu       sync.RWMutex
	filePath string
}

// Dir returns the path to the config directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// New returns a config with defaults applied that persists to path.
func New(path string) *Config {
	return &Config{
		ShowLoading:         true,
		FetchTimeoutSeconds: DefaultFetchTimeoutSeconds,
		filePath:            path,
	}
}

// Load reads the config from disk, or creates a new one if it doesn't exist.
// A missing actor ID is generated and persisted so the identity is stable
// across runs.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, perrors.ConfigLoadFailed("~/"+dirName, err)
	}

	cfg := New(path)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, perrors.ConfigLoadFailed(path, err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, perrors.ConfigLoadFailed(path, err)
		}
	}

	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.ActorID == "" {
		cfg.ActorID = uuid.New().String()
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ensureInitialized fills defaults that JSON left zero. It must run before
// the Config is shared across goroutines.
func (c *Config) ensureInitialized() error {
	if c.FetchTimeoutSeconds == 0 {
		c.FetchTimeoutSeconds = DefaultFetchTimeoutSeconds
	}
	if c.DatabasePath == "" {
		dir, err := Dir()
		if err != nil {
			return perrors.ConfigLoadFailed(c.filePath, err)
		}
		c.DatabasePath = filepath.Join(dir, databaseName)
	}
	return nil
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.FetchTimeoutSeconds < 0 {
		return perrors.ConfigInvalid("fetch_timeout_seconds must not be negative")
	}
	if c.ActorID != "" && strings.TrimSpace(c.ActorID) == "" {
		return perrors.ConfigInvalid("actor_id must not be blank")
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return perrors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// Path returns the file the config is persisted to.
func (c *Config) Path() string {
	return c.filePath
}

// GetActorID returns the configured actor ID
func (c *Config) GetActorID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ActorID
}

// SetActorID overrides the actor for this run (the --actor flag).
func (c *Config) SetActorID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ActorID = id
}

// GetDatabasePath returns the session store path
func (c *Config) GetDatabasePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DatabasePath
}

// SetDatabasePath overrides the session store path
func (c *Config) SetDatabasePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DatabasePath = path
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetShowLoading reports whether the sidebar renders its loading indicator.
func (c *Config) GetShowLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ShowLoading
}

// SetShowLoading sets whether the loading indicator is rendered.
func (c *Config) SetShowLoading(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ShowLoading = show
}

// FetchTimeout returns the session fetch timeout. A zero or missing
// fetch_timeout_seconds loads as DefaultFetchTimeoutSeconds.
func (c *Config) FetchTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetProfile returns the display name and plan shown in the sidebar footer.
func (c *Config) GetProfile() (name, plan string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ProfileName, c.ProfilePlan
}

// SetProfile sets the display name and plan.
func (c *Config) SetProfile(name, plan string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ProfileName = name
	c.ProfilePlan = plan
}
