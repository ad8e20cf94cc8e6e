package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"casework/internal/preflight"
	"casework/internal/stages"
	"casework/internal/workflow"
)

func TestStatusLineNoColor(t *testing.T) {
	got := statusLine("Workflow", verdictError, "case failed", false)
	want := fmt.Sprintf("  %-*s [ERROR] case failed", statusLabelWidth, "Workflow:")
	if got != want {
		t.Fatalf("statusLine mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := statusLine("Summary", verdictOK, "", false); strings.HasSuffix(got, " ") {
		t.Fatalf("empty message should not leave trailing space: %q", got)
	}
}

func TestStatusLineWithColor(t *testing.T) {
	got := statusLine("Workflow", verdictOK, "done", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestColorStatus(t *testing.T) {
	if got := colorStatus(workflow.StatusFailed, true); got != ansiRed+"failed"+ansiReset {
		t.Fatalf("unexpected failed rendering %q", got)
	}
	if got := colorStatus(workflow.StatusSkipped, false); got != "skipped" {
		t.Fatalf("colorless status should be plain, got %q", got)
	}
}

func TestCheckLines(t *testing.T) {
	lines := checkLines([]preflight.Result{
		{Name: "Log directory", Passed: true, Detail: "/srv/logs (read/write ok)"},
		{Name: "Script a.py", Detail: "missing"},
		{Name: "Extra", Optional: true, Detail: "not configured"},
	}, false)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	requireContains(t, lines[0], "[OK] /srv/logs")
	requireContains(t, lines[1], "[ERROR] missing")
	requireContains(t, lines[2], "[WARN] not configured")
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderStageSummary(t *testing.T) {
	result := workflow.Result{
		Case: "acme_corp",
		Stages: []workflow.StageRecord{
			{Stage: stages.Setup, Status: workflow.StatusSucceeded, Duration: 20 * time.Millisecond},
			{Stage: stages.Parse, Selector: "all", Status: workflow.StatusFailed, Duration: 1500 * time.Millisecond, Scripts: 2},
			{Stage: stages.Analyze, Selector: "all", Status: workflow.StatusSkipped},
		},
	}
	got := renderStageSummary(result, false)
	for _, want := range []string{"STAGE", "Setup", "Parse", "Analyze", "succeeded", "failed", "skipped", "1.5s", "1 stage(s) failed for case acme_corp"} {
		requireContains(t, got, want)
	}

	result.Stages = nil
	result.Err = errors.New("invalid case name")
	got = renderStageSummary(result, false)
	if strings.Contains(got, "STAGE") {
		t.Fatalf("expected no table without stage records, got %q", got)
	}
	requireContains(t, got, "[ERROR] invalid case name")
}
