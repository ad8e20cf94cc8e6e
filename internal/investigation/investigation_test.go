package investigation_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"casework/internal/failures"
	"casework/internal/investigation"
)

func TestValidateNameAccepts(t *testing.T) {
	for _, name := range []string{"acme_corp", "Case-2024.v1", "a", "X_y-Z.9", "."} {
		if err := investigation.ValidateName(name); err != nil {
			t.Fatalf("ValidateName(%q) returned %v", name, err)
		}
	}
}

func TestValidateNameRejects(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"", "cannot be empty"},
		{"acme/corp", "invalid characters"},
		{`acme\corp`, "invalid characters"},
		{"acme corp", "invalid characters"},
		{"acmé", "invalid characters"},
		{"../etc", "invalid characters"},
		{"..", "cannot contain '..'"},
		{"a..b", "cannot contain '..'"},
	}
	for _, tc := range tests {
		err := investigation.ValidateName(tc.name)
		if err == nil {
			t.Fatalf("ValidateName(%q) succeeded, want error", tc.name)
		}
		if !errors.Is(err, failures.ErrInvalidCaseName) {
			t.Fatalf("ValidateName(%q) error not marked invalid: %v", tc.name, err)
		}
		if !strings.Contains(err.Error(), tc.message) {
			t.Fatalf("ValidateName(%q) = %q, want message containing %q", tc.name, err, tc.message)
		}
	}
}

func TestValidateNameNeverAcceptsSeparators(t *testing.T) {
	alphabet := []string{"a", "Z", "0", "_", "-", ".", "/", `\`, " ", ":"}
	var generate func(prefix string, depth int)
	generate = func(prefix string, depth int) {
		if depth == 0 {
			return
		}
		for _, ch := range alphabet {
			name := prefix + ch
			err := investigation.ValidateName(name)
			unsafe := strings.ContainsAny(name, `/\ :`) || strings.Contains(name, "..")
			if unsafe && err == nil {
				t.Fatalf("ValidateName(%q) accepted an unsafe name", name)
			}
			if !unsafe && err != nil {
				t.Fatalf("ValidateName(%q) rejected a safe name: %v", name, err)
			}
			generate(name, depth-1)
		}
	}
	generate("", 3)
}

func TestNewRejectsBeforeBuildingPath(t *testing.T) {
	c, err := investigation.New(t.TempDir(), "../escape")
	if err == nil {
		t.Fatal("expected error")
	}
	if c != (investigation.Case{}) {
		t.Fatalf("expected zero case, got %+v", c)
	}
}

func TestNewRejectsNameResolvingToRoot(t *testing.T) {
	root := t.TempDir()
	c, err := investigation.New(root, ".")
	if !errors.Is(err, failures.ErrInvalidCaseName) {
		t.Fatalf("New(%q) error = %v, want invalid case name", ".", err)
	}
	if c != (investigation.Case{}) {
		t.Fatalf("expected zero case, got %+v", c)
	}

	c, err = investigation.New(root+string(filepath.Separator), "acme")
	if err != nil {
		t.Fatalf("New with trailing separator: %v", err)
	}
	if c.Dir != filepath.Join(root, "acme") {
		t.Fatalf("unexpected case dir %q", c.Dir)
	}
}

func TestSetupRejectsDirOutsideParent(t *testing.T) {
	root := t.TempDir()
	_, err := investigation.Case{Name: ".", Dir: root}.Setup()
	if err == nil {
		t.Fatal("expected error for a case that resolves to its parent")
	}
}

func TestSetupCreatesLayoutIdempotently(t *testing.T) {
	root := t.TempDir()
	c, err := investigation.New(root, "acme_corp")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Dir != filepath.Join(root, "acme_corp") {
		t.Fatalf("unexpected dir: %s", c.Dir)
	}
	if c.Exists() {
		t.Fatal("case should not exist before setup")
	}

	created, err := c.Setup()
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if len(created) != len(investigation.Layout) {
		t.Fatalf("expected %d created dirs, got %d", len(investigation.Layout), len(created))
	}
	for _, rel := range investigation.Layout {
		info, err := os.Stat(filepath.Join(c.Dir, rel))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected %s to exist", rel)
		}
	}

	marker := filepath.Join(c.Dir, "03_analysis_and_reports", "report.txt")
	if err := os.WriteFile(marker, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	created, err = c.Setup()
	if err != nil {
		t.Fatalf("second Setup: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("second setup created %v", created)
	}
	if data, err := os.ReadFile(marker); err != nil || string(data) != "keep" {
		t.Fatalf("existing content changed: %q %v", data, err)
	}
	if !c.Exists() {
		t.Fatal("case should exist after setup")
	}
}

func TestSetupRevalidatesName(t *testing.T) {
	root := t.TempDir()
	c := investigation.Case{Name: "a/b", Dir: filepath.Join(root, "a/b")}
	if _, err := c.Setup(); !errors.Is(err, failures.ErrInvalidCaseName) {
		t.Fatalf("expected invalid case name, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
		t.Fatal("setup touched the filesystem for an invalid name")
	}
}

func TestSetupFailureIsMarked(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "acme")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, _ := investigation.New(root, "acme")
	_, err := c.Setup()
	if !errors.Is(err, failures.ErrSetup) {
		t.Fatalf("expected setup failure, got %v", err)
	}
	if failures.KindOf(err) != "SetupFailure" {
		t.Fatalf("unexpected kind %q", failures.KindOf(err))
	}
}

func TestLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	c, _ := investigation.New(t.TempDir(), "acme")

	first, err := investigation.Lock(dir, c)
	if err != nil {
		t.Fatalf("first Lock: %v", err)
	}
	if first.Path() != filepath.Join(dir, "acme.lock") {
		t.Fatalf("unexpected lock path %s", first.Path())
	}
	if _, err := investigation.Lock(dir, c); !errors.Is(err, investigation.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	second, err := investigation.Lock(dir, c)
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	_ = second.Unlock()
}
