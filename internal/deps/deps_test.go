package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Path != present {
		t.Fatalf("expected resolved path %q, got %q", present, results[0].Path)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected blank command to be reported as not configured, got %#v", results[2])
	}
}

func TestInterpreterRequirementsSortedByExtension(t *testing.T) {
	reqs := InterpreterRequirements(map[string]string{
		".sh": "/bin/sh",
		".py": "python3",
		".r":  "Rscript",
	})

	var commands []string
	for _, req := range reqs {
		commands = append(commands, req.Command)
	}
	want := []string{"python3", "Rscript", "/bin/sh"}
	if diff := cmp.Diff(want, commands); diff != "" {
		t.Fatalf("requirement order mismatch (-want +got):\n%s", diff)
	}
	if reqs[0].Name != "Interpreter (.py)" {
		t.Fatalf("unexpected requirement name %q", reqs[0].Name)
	}
}

func TestMissingIgnoresOptional(t *testing.T) {
	statuses := []Status{
		{Name: "ok", Available: true},
		{Name: "optional", Optional: true},
		{Name: "required"},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "required" {
		t.Fatalf("expected only the required dependency, got %#v", missing)
	}
}
