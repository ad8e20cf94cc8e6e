package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Normalize fills defaults and resolves every path to an absolute location.
// Load calls it; tests and callers that build a Config by hand call it
// directly after editing fields.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRunner()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	root := strings.TrimSpace(c.Paths.RootDir)
	if root == "" {
		if value, ok := os.LookupEnv(RootEnvVar); ok {
			root = strings.TrimSpace(value)
		}
	}
	var err error
	if root == "" {
		if root, err = installDir(); err != nil {
			return fmt.Errorf("paths.root_dir: %w", err)
		}
	}
	if c.Paths.RootDir, err = expandPath(root); err != nil {
		return fmt.Errorf("paths.root_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.InvestigationsDir) == "" {
		c.Paths.InvestigationsDir = defaultInvestigationsDir
	}
	if c.Paths.InvestigationsDir, err = resolveUnder(c.Paths.RootDir, c.Paths.InvestigationsDir); err != nil {
		return fmt.Errorf("paths.investigations_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ScriptsDir) == "" {
		c.Paths.ScriptsDir = defaultScriptsDir
	}
	if c.Paths.ScriptsDir, err = resolveUnder(c.Paths.RootDir, c.Paths.ScriptsDir); err != nil {
		return fmt.Errorf("paths.scripts_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = resolveUnder(c.Paths.RootDir, c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

// installDir is the directory holding the running binary, with symlinks
// resolved, so the default root does not follow the caller's cwd.
func installDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if exe, err = filepath.EvalSymlinks(exe); err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

func (c *Config) normalizeRunner() {
	if c.Runner.ScriptTimeoutSeconds == 0 {
		c.Runner.ScriptTimeoutSeconds = defaultScriptTimeoutSeconds
	}
	if len(c.Runner.Interpreters) == 0 {
		c.Runner.Interpreters = defaultInterpreters()
		return
	}
	normalized := make(map[string]string, len(c.Runner.Interpreters))
	for ext, interpreter := range c.Runner.Interpreters {
		key := strings.ToLower(strings.TrimSpace(ext))
		if key == "" {
			continue
		}
		if !strings.HasPrefix(key, ".") {
			key = "." + key
		}
		normalized[key] = strings.TrimSpace(interpreter)
	}
	c.Runner.Interpreters = normalized
}

func (c *Config) normalizeWorkflow() {
	c.Workflow.TableFile = strings.TrimSpace(c.Workflow.TableFile)
	if c.Workflow.TableFile == "" {
		return
	}
	if resolved, err := resolveUnder(c.Paths.RootDir, c.Workflow.TableFile); err == nil {
		c.Workflow.TableFile = resolved
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
