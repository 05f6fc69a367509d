package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultTitleAutosave = 500 * time.Millisecond

type GlobalConfig struct {
	CurrentActorID   string `json:"currentActorId,omitempty"`
	CurrentWorkspace string `json:"currentWorkspace,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is "light", "dark" or "auto".
	Theme string `json:"theme,omitempty"`
	// TitleAutosaveMs is the quiet period before an edited title is written.
	TitleAutosaveMs int `json:"titleAutosaveMs,omitempty"`
}

// TitleAutosave returns the configured title autosave debounce (default 500ms).
func (c *GlobalConfig) TitleAutosave() time.Duration {
	if c == nil || c.TUI == nil || c.TUI.TitleAutosaveMs <= 0 {
		return defaultTitleAutosave
	}
	return time.Duration(c.TUI.TitleAutosaveMs) * time.Millisecond
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.notewin).
	if v := strings.TrimSpace(os.Getenv("NOTEWIN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".notewin"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + rename: the TUI and CLI may save concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
