package testsupport

import (
	"path/filepath"
	"testing"

	"casework/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a normalized config rooted at a unique temp directory
// per test. Options are applied before normalization.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.Paths.RootDir = t.TempDir()

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Normalize(); err != nil {
		t.Fatalf("normalize test config: %v", err)
	}
	return builder.cfg
}

// WithShellScripts runs ".py" scripts with /bin/sh so tests can install
// shell bodies under the names used by the built-in resolution table.
func WithShellScripts() ConfigOption {
	return WithInterpreters(map[string]string{".py": "/bin/sh"})
}

// WithInterpreters replaces the extension-to-interpreter map.
func WithInterpreters(interpreters map[string]string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runner.Interpreters = interpreters
	}
}

// WithKillGrace sets the SIGTERM to SIGKILL delay in seconds.
func WithKillGrace(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runner.KillGraceSeconds = seconds
	}
}

// WithLogFormat selects the console or json log format.
func WithLogFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Format = format
	}
}

// WithoutCaseLocks disables the per-case run lock.
func WithoutCaseLocks() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.LockCases = false
	}
}

// CaseDir returns where the named case lives under cfg.
func CaseDir(cfg *config.Config, name string) string {
	return filepath.Join(cfg.Paths.InvestigationsDir, name)
}
