package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory layout shared with child scripts.
type Paths struct {
	RootDir           string `toml:"root_dir"`
	InvestigationsDir string `toml:"investigations_dir"`
	ScriptsDir        string `toml:"scripts_dir"`
	LogDir            string `toml:"log_dir"`
}

// Runner contains child process execution settings.
type Runner struct {
	ScriptTimeoutSeconds int `toml:"script_timeout_seconds"`
	// KillGraceSeconds is how long a timed-out script gets between SIGTERM
	// and SIGKILL.
	KillGraceSeconds int `toml:"kill_grace_seconds"`
	// Interpreters maps a script extension (".py") to the program that runs it.
	Interpreters map[string]string `toml:"interpreters"`
}

// Workflow contains stage resolution and run coordination settings.
type Workflow struct {
	// TableFile optionally points at a YAML file with extra resolution rows.
	TableFile string `toml:"table_file"`
	LockCases bool   `toml:"lock_cases"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for casework.
//
// Configuration sections by subsystem:
//   - Paths: install root plus investigations/scripts/log directories
//   - Runner: script timeout, kill grace period, interpreters by extension
//   - Workflow: resolution table overrides and per-case run locking
//   - Logging: log format, level, and retention
type Config struct {
	Paths    Paths    `toml:"paths"`
	Runner   Runner   `toml:"runner"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/casework/config.toml")
}

// Overrides carries command-line values that take precedence over the file.
// They are applied before normalization so relative directories from the
// file resolve against an overridden root.
type Overrides struct {
	RootDir              string
	TableFile            string
	ScriptTimeoutSeconds int
}

func (o Overrides) apply(cfg *Config) {
	if root := strings.TrimSpace(o.RootDir); root != "" {
		cfg.Paths.RootDir = root
	}
	if table := strings.TrimSpace(o.TableFile); table != "" {
		cfg.Workflow.TableFile = table
	}
	if o.ScriptTimeoutSeconds != 0 {
		cfg.Runner.ScriptTimeoutSeconds = o.ScriptTimeoutSeconds
	}
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	return LoadWithOverrides(path, Overrides{})
}

// LoadWithOverrides behaves like Load and then applies overrides before
// normalization and validation.
func LoadWithOverrides(path string, overrides Overrides) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	overrides.apply(&cfg)

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("casework.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory. The investigations directory
// is created by case setup once a name has been validated, and the scripts
// directory belongs to the operator.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// ScriptTimeout returns the per-script deadline.
func (c *Config) ScriptTimeout() time.Duration {
	return time.Duration(c.Runner.ScriptTimeoutSeconds) * time.Second
}

// KillGrace returns the delay between SIGTERM and SIGKILL for timed-out scripts.
func (c *Config) KillGrace() time.Duration {
	return time.Duration(c.Runner.KillGraceSeconds) * time.Second
}

// InterpreterFor returns the configured interpreter for a script path, keyed
// by its lower-cased extension.
func (c *Config) InterpreterFor(script string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(script))
	if ext == "" {
		return "", false
	}
	interpreter, ok := c.Runner.Interpreters[ext]
	if !ok || strings.TrimSpace(interpreter) == "" {
		return "", false
	}
	return interpreter, true
}

// LocksDir returns the directory holding per-case run locks.
func (c *Config) LocksDir() string {
	return filepath.Join(c.Paths.LogDir, "locks")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// resolveUnder expands pathValue, anchoring relative paths at root instead
// of the process working directory.
func resolveUnder(root, pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if strings.HasPrefix(trimmed, "~") || filepath.IsAbs(trimmed) {
		return expandPath(trimmed)
	}
	return expandPath(filepath.Join(root, trimmed))
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
