package workflow

import (
	"time"

	"casework/internal/stages"
)

// Request describes one orchestrator run.
type Request struct {
	Case string
	// Stages holds the raw --stage values in the order given; "all" expands
	// to the canonical order.
	Stages    []string
	Selectors map[stages.Name]string
	// Timeout is the per-script deadline; zero uses the configured default.
	Timeout time.Duration
}

// Status is the final state of one stage in a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// StageRecord captures how one planned stage ended.
type StageRecord struct {
	Stage    stages.Name
	Selector string
	Status   Status
	Err      error
	Duration time.Duration
	// Scripts counts the invocations attempted by the stage.
	Scripts int
}

// Result is the outcome of a whole run.
type Result struct {
	RunID   string
	Case    string
	LogPath string
	Stages  []StageRecord
	// Err is set when the run could not start (invalid case name, lock held).
	Err       error
	Succeeded bool
	Duration  time.Duration
}

// ExitCode maps the result to the process exit status.
func (r Result) ExitCode() int {
	if r.Succeeded {
		return 0
	}
	return 1
}

// Failed returns the records of stages that failed.
func (r Result) Failed() []StageRecord {
	var out []StageRecord
	for _, rec := range r.Stages {
		if rec.Status == StatusFailed {
			out = append(out, rec)
		}
	}
	return out
}
