package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".talkboard.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "http://localhost:8000",
		DataDir:          defaultDataDir(),
		LoginPage:        "/login/index.html",
		TimeoutSeconds:   30,
		PlaceholderImage: "../home/img/error-img.jpg",
		DebounceMS:       300,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".talkboard"
	}
	return filepath.Join(home, ".talkboard")
}

// DatabasePath is the SQLite file holding local storage.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "local_storage.db")
}

// Timeout is the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Debounce is the resize debounce delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}
