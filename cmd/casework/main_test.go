package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func requireExitCode(t *testing.T, err error, want int) {
	t.Helper()
	var exitErr exitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exitError, got %v", err)
	}
	if exitErr.code != want {
		t.Fatalf("exit code = %d, want %d", exitErr.code, want)
	}
}

func TestRunSetupCreatesCase(t *testing.T) {
	env := setupCLITestEnv(t)

	out, logs, err := runCLI(t, []string{"acme_corp", "--stage", "setup"}, env.configPath)
	if err != nil {
		t.Fatalf("run setup: %v\nstderr:\n%s", err, logs)
	}

	caseDir := filepath.Join(env.root, "investigations", "acme_corp")
	if info, err := os.Stat(filepath.Join(caseDir, "04_findings_and_narrative")); err != nil || !info.IsDir() {
		t.Fatalf("expected case layout under %s: %v", caseDir, err)
	}
	requireContains(t, out, "Setup")
	requireContains(t, out, "succeeded")
	requireContains(t, out, "Run log:")

	matches, err := filepath.Glob(filepath.Join(env.root, "logs", "orchestrator_*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one run log, got %v (err=%v)", matches, err)
	}
	content, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	requireContains(t, string(content), "acme_corp")
	requireContains(t, logs, "acme_corp")
}

func TestRunSetupAndAcquireWithScript(t *testing.T) {
	env := setupCLITestEnv(t)
	trace := filepath.Join(env.root, "trace.log")
	env.installScript(t, "scraping/fetch_irs_990_forms.py", `echo "fetch $1" >> `+trace)

	out, logs, err := runCLI(t, []string{"acme_corp", "--stage", "setup", "--stage", "acquire", "--acquire-type", "irs_990s"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, logs)
	}
	requireContains(t, out, "Acquire")
	requireContains(t, out, "irs_990s")

	data, err := os.ReadFile(trace)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "fetch acme_corp" {
		t.Fatalf("unexpected trace %q", got)
	}
}

func TestRunFailedStageExitsOne(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"acme_corp", "--stage", "acquire"}, env.configPath)
	requireExitCode(t, err, 1)
	requireContains(t, out, "failed")
}

func TestRunInvalidCaseNameExitsOne(t *testing.T) {
	env := setupCLITestEnv(t)

	out, logs, err := runCLI(t, []string{"acme/../corp", "--stage", "setup"}, env.configPath)
	requireExitCode(t, err, 1)
	requireContains(t, out, "[ERROR]")
	requireContains(t, logs, "invalid case name")
	if _, statErr := os.Stat(filepath.Join(env.root, "investigations")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no investigations directory for an invalid name, stat err=%v", statErr)
	}
	if info, statErr := os.Stat(filepath.Join(env.root, "logs")); statErr != nil || !info.IsDir() {
		t.Fatalf("expected the log directory to exist, stat err=%v", statErr)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing stage", []string{"acme_corp"}, "--stage"},
		{"unknown stage", []string{"acme_corp", "--stage", "publish"}, "unknown stage"},
		{"unknown selector", []string{"acme_corp", "--stage", "acquire", "--acquire-type", "satellite"}, "--acquire-type"},
		{"non-positive timeout", []string{"acme_corp", "--stage", "setup", "--script-timeout", "0"}, "--script-timeout"},
		{"missing case", []string{"--stage", "setup"}, "arg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args, env.configPath)
			if err == nil {
				t.Fatal("expected an error")
			}
			var exitErr exitError
			if errors.As(err, &exitErr) {
				t.Fatalf("expected a usage error, got exit status %d", exitErr.code)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(env.root, "investigations", "acme_corp")); !os.IsNotExist(err) {
		t.Fatalf("rejected invocations must not create the case, stat err=%v", err)
	}
}

func TestRunRootFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	other := t.TempDir()

	_, logs, err := runCLI(t, []string{"--root", other, "beta", "--stage", "setup"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, logs)
	}
	if _, err := os.Stat(filepath.Join(other, "investigations", "beta")); err != nil {
		t.Fatalf("expected case under overridden root: %v", err)
	}
}

func TestRunWorkflowFileAddsSelector(t *testing.T) {
	env := setupCLITestEnv(t)
	trace := filepath.Join(env.root, "trace.log")
	env.installScript(t, "scraping/fetch_property_records.py", `echo "property $1" >> `+trace)

	tableFile := filepath.Join(t.TempDir(), "workflow.yaml")
	body := "rows:\n  - stage: acquire\n    selector: property\n    scripts:\n      - path: scraping/fetch_property_records.py\n"
	if err := os.WriteFile(tableFile, []byte(body), 0o644); err != nil {
		t.Fatalf("write workflow file: %v", err)
	}

	args := []string{"acme_corp", "--stage", "setup", "--stage", "acquire", "--acquire-type", "property", "--workflow-file", tableFile}
	_, logs, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("run: %v\nstderr:\n%s", err, logs)
	}
	data, err := os.ReadFile(trace)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "property acme_corp" {
		t.Fatalf("unexpected trace %q", got)
	}
}

type fakeExecutor struct {
	err   error
	panic any
}

func (f fakeExecutor) ExecuteContext(context.Context) error {
	if f.panic != nil {
		panic(f.panic)
	}
	return f.err
}

func TestExecuteMapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"exit status", exitError{code: 1}, 1},
		{"wrapped exit status", errors.Join(errors.New("context"), exitError{code: 3}), 3},
		{"canceled", context.Canceled, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := execute(context.Background(), fakeExecutor{err: tc.err}, io.Discard); got != tc.want {
				t.Fatalf("execute() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestExecuteRecoversPanic(t *testing.T) {
	var errOut bytes.Buffer
	if got := execute(context.Background(), fakeExecutor{panic: "table loader exploded"}, &errOut); got != 1 {
		t.Fatalf("execute() = %d, want 1", got)
	}
	requireContains(t, errOut.String(), "unexpected error: table loader exploded")
	requireContains(t, errOut.String(), "goroutine")
}
