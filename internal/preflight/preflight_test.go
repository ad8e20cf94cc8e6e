package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"casework/internal/config"
	"casework/internal/testsupport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithShellScripts())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.ScriptsDir, 0o755); err != nil {
		t.Fatalf("mkdir scripts: %v", err)
	}
	return cfg
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
	if !strings.Contains(result.Detail, "is not a directory") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	base := t.TempDir()
	missing := filepath.Join(base, "investigations")
	if result := CheckCreatableDirectory("test", missing); !result.Passed {
		t.Fatalf("missing dir under a writable parent should pass: %s", result.Detail)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatal("check must not create the directory")
	}

	blocker := filepath.Join(base, "file.txt")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCreatableDirectory("test", filepath.Join(blocker, "investigations")); result.Passed {
		t.Fatal("expected failure when the nearest ancestor is a file")
	}
	if result := CheckCreatableDirectory("test", blocker); result.Passed {
		t.Fatal("expected failure for an existing file")
	}
}

func TestCheckScript(t *testing.T) {
	cfg := testConfig(t)
	testsupport.WriteScript(t, filepath.Join(cfg.Paths.ScriptsDir, "scraping", "fetch.py"), "exit 0", 0o644)
	testsupport.WriteScript(t, filepath.Join(cfg.Paths.ScriptsDir, "tools", "run"), "exit 0", 0o755)
	testsupport.WriteScript(t, filepath.Join(cfg.Paths.ScriptsDir, "tools", "noexec"), "exit 0", 0o644)
	if err := os.MkdirAll(filepath.Join(cfg.Paths.ScriptsDir, "dir.py"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		script string
		passed bool
	}{
		{"scraping/fetch.py", true},
		{"tools/run", true},
		{"tools/noexec", false},
		{"dir.py", false},
		{"missing/script.py", false},
	}
	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			result := CheckScript(cfg, tt.script)
			if result.Passed != tt.passed {
				t.Fatalf("CheckScript(%q) passed=%v, want %v (%s)", tt.script, result.Passed, tt.passed, result.Detail)
			}
		})
	}
}

func TestCheckInterpreters(t *testing.T) {
	cfg := testConfig(t)
	cfg.Runner.Interpreters[".zz"] = "clearly-not-present-interpreter"

	results := CheckInterpreters(cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Passed || results[0].Detail != "/bin/sh" {
		t.Fatalf("expected .py interpreter to resolve, got %#v", results[0])
	}
	if results[1].Passed {
		t.Fatalf("expected missing interpreter to fail, got %#v", results[1])
	}
}

func TestRunAll(t *testing.T) {
	cfg := testConfig(t)
	testsupport.WriteScript(t, filepath.Join(cfg.Paths.ScriptsDir, "ok.py"), "exit 0", 0o644)

	results := RunAll(cfg, []string{"ok.py", "gone.py"})
	failed := Failed(results)
	if len(failed) != 1 {
		t.Fatalf("expected one failed check, got %#v", failed)
	}
	if failed[0].Name != "Script gone.py" {
		t.Fatalf("unexpected failed check %q", failed[0].Name)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(nil, nil); results != nil {
		t.Fatalf("expected nil results, got %#v", results)
	}
}
