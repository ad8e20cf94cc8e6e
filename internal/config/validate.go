package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRunner(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		return errors.New("paths.root_dir must be set")
	}
	if strings.TrimSpace(c.Paths.InvestigationsDir) == "" {
		return errors.New("paths.investigations_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ScriptsDir) == "" {
		return errors.New("paths.scripts_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateRunner() error {
	if c.Runner.ScriptTimeoutSeconds <= 0 {
		return errors.New("runner.script_timeout_seconds must be positive")
	}
	if c.Runner.KillGraceSeconds < 0 {
		return errors.New("runner.kill_grace_seconds must be zero or positive")
	}
	for ext, interpreter := range c.Runner.Interpreters {
		if interpreter == "" {
			return fmt.Errorf("runner.interpreters[%q] must name a program", ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
