package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"casework/internal/config"
)

// WriteScript writes a "#!/bin/sh" script with the given body. Mode 0o755
// makes it directly executable; 0o644 relies on a configured interpreter.
func WriteScript(t testing.TB, path, body string, mode os.FileMode) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// InstallScripts writes each body under cfg's scripts directory, keyed by
// the slash-separated path the resolution table uses.
func InstallScripts(t testing.TB, cfg *config.Config, bodies map[string]string) {
	t.Helper()

	for rel, body := range bodies {
		WriteScript(t, filepath.Join(cfg.Paths.ScriptsDir, filepath.FromSlash(rel)), body, 0o644)
	}
}
