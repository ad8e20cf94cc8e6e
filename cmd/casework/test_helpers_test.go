package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"casework/internal/config"
	"casework/internal/testsupport"
)

type cliTestEnv struct {
	root       string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv(config.RootEnvVar, "")

	root := filepath.Join(base, "install")
	if err := os.MkdirAll(filepath.Join(root, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir scripts: %v", err)
	}

	configPath := filepath.Join(base, "casework.toml")
	body := fmt.Sprintf(`[paths]
root_dir = %q

[runner]
script_timeout_seconds = 30
kill_grace_seconds = 1

[runner.interpreters]
".py" = "/bin/sh"
`, root)
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{root: root, configPath: configPath}
}

func (e *cliTestEnv) installScript(t *testing.T, rel, body string) {
	t.Helper()
	testsupport.WriteScript(t, filepath.Join(e.root, "scripts", filepath.FromSlash(rel)), body, 0o644)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
