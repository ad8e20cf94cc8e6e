package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"casework/internal/config"
)

type commandContext struct {
	configFlag *string
	rootFlag   *string

	// Run-only overrides; zero values leave the file settings alone.
	timeoutSeconds int
	tableFile      string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, rootFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		rootFlag:   rootFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		overrides := config.Overrides{ScriptTimeoutSeconds: c.timeoutSeconds}
		if table := strings.TrimSpace(c.tableFile); table != "" {
			expanded, err := config.ExpandPath(table)
			if err != nil {
				c.configErr = fmt.Errorf("resolve workflow file: %w", err)
				return
			}
			overrides.TableFile = expanded
		}
		if c.rootFlag != nil {
			overrides.RootDir = strings.TrimSpace(*c.rootFlag)
		}
		cfg, resolved, exists, err := config.LoadWithOverrides(path, overrides)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
