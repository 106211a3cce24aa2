package roster

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config locates the event files. An empty Dir resolves to DefaultDir.
type Config struct {
	Dir string `env:"ROSTER_DIR"`
}

// DefaultDir is where the meet-management PC drops event files unless configured.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("Swim Live", "Events")
	}
	return filepath.Join(home, "Documents", "Swim Live", "Events")
}

// EnsureDir resolves the configured directory and creates it if missing.
func (c Config) EnsureDir() (string, error) {
	dir := c.Dir
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create roster dir %q: %w", dir, err)
	}
	return dir, nil
}
