package stageexec

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"casework/internal/failures"
	"casework/internal/investigation"
	"casework/internal/logging"
	"casework/internal/runner"
	"casework/internal/stages"
)

// ScriptRunner launches a single script. *runner.Runner satisfies it.
type ScriptRunner interface {
	Run(ctx context.Context, req runner.Request) runner.Outcome
}

// Options configures an Executor.
type Options struct {
	Logger *slog.Logger
	Runner ScriptRunner
	// ScriptsDir anchors relative invocation paths.
	ScriptsDir string
	// WorkDir is the working directory for every script (the install root).
	WorkDir string
}

// Executor runs stage invocations through a ScriptRunner.
type Executor struct {
	logger     *slog.Logger
	runner     ScriptRunner
	scriptsDir string
	workDir    string
}

// New constructs an Executor.
func New(opts Options) *Executor {
	return &Executor{
		logger:     logging.NewComponentLogger(opts.Logger, "executor"),
		runner:     opts.Runner,
		scriptsDir: opts.ScriptsDir,
		workDir:    opts.WorkDir,
	}
}

// ScriptResult pairs an invocation with its outcome.
type ScriptResult struct {
	Invocation stages.Invocation
	Outcome    runner.Outcome
}

// Result summarizes one stage execution.
type Result struct {
	Stage     stages.Name
	Scripts   []ScriptResult
	Succeeded bool
	Duration  time.Duration
}

// Failed returns the script results that did not succeed.
func (r Result) Failed() []ScriptResult {
	var failed []ScriptResult
	for _, script := range r.Scripts {
		if !script.Outcome.Succeeded() {
			failed = append(failed, script)
		}
	}
	return failed
}

// Execute runs invocations sequentially for c. Each script receives the case
// name as its first argument, followed by the invocation's own arguments. An
// empty list succeeds vacuously.
func (e *Executor) Execute(ctx context.Context, stage stages.Name, invocations []stages.Invocation, c investigation.Case, timeout time.Duration) Result {
	started := time.Now()
	ctx = logging.WithStage(logging.WithCase(ctx, c.Name), string(stage))
	logger := logging.WithContext(ctx, e.logger)
	result := Result{Stage: stage, Succeeded: true}

	if len(invocations) == 0 {
		logging.WarnWithContext(logger, "no scripts configured for this selection; nothing to run", "stage_empty",
			logging.String(logging.FieldImpact, "stage treated as successful without running anything"),
			logging.String(logging.FieldErrorHint, "add a row to the workflow table to enable this selection"),
		)
		result.Duration = time.Since(started)
		return result
	}

	for idx, invocation := range invocations {
		req := runner.Request{
			Executable: e.scriptPath(invocation.Script),
			Args:       append([]string{c.Name}, invocation.Args...),
			Dir:        e.workDir,
			Timeout:    timeout,
		}
		logger.Debug("dispatching script",
			logging.Script(invocation.Script),
			logging.Int("position", idx+1),
			logging.Int("count", len(invocations)),
		)
		outcome := e.runner.Run(ctx, req)
		result.Scripts = append(result.Scripts, ScriptResult{Invocation: invocation, Outcome: outcome})
		if outcome.Succeeded() {
			continue
		}
		result.Succeeded = false
		err := outcome.Err
		if err == nil {
			err = failures.WrapScript(nil, invocation.Script, string(outcome.Kind), nil)
		}
		logging.ErrorWithContext(logger, "script execution failure; continuing with remaining scripts", "script_execution_failure",
			logging.Script(invocation.Script),
			logging.ErrorKind(failures.KindOf(err)),
			logging.Outcome(string(outcome.Kind)),
			logging.Error(err),
		)
	}

	result.Duration = time.Since(started)
	return result
}

func (e *Executor) scriptPath(script string) string {
	if filepath.IsAbs(script) {
		return script
	}
	return filepath.Join(e.scriptsDir, filepath.FromSlash(script))
}
