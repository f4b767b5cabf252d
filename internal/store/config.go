package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

type GlobalConfig struct {
	// DataDir overrides where the database lives (default: <config dir>/data).
	DataDir string `json:"dataDir,omitempty"`

	// UndoLimit is the undo history depth. Values < 1 mean the default (50).
	UndoLimit int `json:"undoLimit,omitempty"`

	// Format is the default CLI output format (json|yaml|text).
	Format string `json:"format,omitempty"`

	// LogLevel is debug|info|warn|error.
	LogLevel string `json:"logLevel,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// NoColor forces the ASCII color profile.
	NoColor bool `json:"noColor,omitempty"`
	// ConfirmDelete asks before deleting a list.
	ConfirmDelete bool `json:"confirmDelete,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.tasklist).
	if v := strings.TrimSpace(os.Getenv("TASKLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, localDirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads config.json. Comments and trailing commas are accepted.
// A missing file yields an empty config.
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
	return ParseConfig(b)
}

func ParseConfig(b []byte) (*GlobalConfig, error) {
	var cfg GlobalConfig
	if len(strings.TrimSpace(string(b))) == 0 {
		return &cfg, nil
	}
	if err := json.Unmarshal(jsonc.ToJSON(b), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
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
	// CLI and TUI may both write; temp file + rename keeps readers from seeing a torn file.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
