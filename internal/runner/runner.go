package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"casework/internal/config"
	"casework/internal/failures"
	"casework/internal/logging"
)

// Request describes one script invocation.
type Request struct {
	// Executable is the absolute script path.
	Executable string
	Args       []string
	// Dir is the working directory, normally the install root.
	Dir     string
	Timeout time.Duration
}

// Runner executes scripts. It is safe for sequential reuse; the orchestrator
// never runs two scripts at once.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs a Runner using the interpreter map and kill grace from cfg.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logging.NewComponentLogger(logger, "runner")}
}

const (
	stopNone int32 = iota
	stopTimeout
	stopCanceled
)

// Run launches req and blocks until the script and its drains finish.
func (r *Runner) Run(ctx context.Context, req Request) Outcome {
	logger := logging.WithContext(ctx, r.logger)
	script := req.Executable
	started := time.Now()

	info, err := os.Stat(script)
	if err != nil || !info.Mode().IsRegular() {
		if err == nil {
			err = fmt.Errorf("%s is not a regular file", script)
		}
		outcome := Outcome{ExitCode: -1, Command: []string{script}}
		outcome.fail(KindNotFound, script, "script missing", err)
		logging.ErrorWithContext(logger, "script not found", "script_not_found",
			logging.Script(script),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.scripts_dir and the workflow table"),
		)
		return outcome
	}

	argv := r.commandLine(script, req.Args)
	logger.Info("launching script",
		logging.String(logging.FieldEventType, "script_start"),
		logging.String("command", strings.Join(argv, " ")),
		logging.Duration("timeout", req.Timeout),
	)

	cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec
	cmd.Dir = req.Dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	outcome := Outcome{Command: argv, ExitCode: -1}

	stdout, err := cmd.StdoutPipe()
	if err == nil {
		var stderr io.ReadCloser
		if stderr, err = cmd.StderrPipe(); err == nil {
			err = cmd.Start()
		}
		if err == nil {
			r.supervise(ctx, logger, cmd, script, req.Timeout, stdout, stderr, &outcome)
		}
	}
	if err != nil {
		outcome.fail(KindLaunchError, script, "start process", err)
	}
	outcome.Duration = time.Since(started)

	r.logOutcome(logger, script, outcome, req.Timeout)
	return outcome
}

// supervise drains output, waits for the process, and enforces the timeout.
func (r *Runner) supervise(ctx context.Context, logger *slog.Logger, cmd *exec.Cmd, script string, timeout time.Duration, stdout, stderr io.Reader, outcome *Outcome) {
	pgid := cmd.Process.Pid
	var stopReason atomic.Int32
	done := make(chan struct{})
	watchdogDone := make(chan struct{})

	go func() {
		defer close(watchdogDone)
		var deadline <-chan time.Time
		if timeout > 0 {
			timer := time.NewTimer(timeout)
			defer timer.Stop()
			deadline = timer.C
		}
		select {
		case <-done:
			return
		case <-deadline:
			stopReason.Store(stopTimeout)
		case <-ctx.Done():
			stopReason.Store(stopCanceled)
		}
		r.signalGroup(pgid, unix.SIGTERM)
		grace := time.NewTimer(r.killGrace())
		defer grace.Stop()
		select {
		case <-done:
		case <-grace.C:
		}
		// Members that ignored SIGTERM, or outlived the leader, go now.
		r.signalGroup(pgid, unix.SIGKILL)
	}()

	var outBuf, errBuf bytes.Buffer
	var drains errgroup.Group
	drains.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	drains.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	drainErr := drains.Wait()
	waitErr := cmd.Wait()
	close(done)
	<-watchdogDone

	outcome.Stdout = outBuf.String()
	outcome.Stderr = errBuf.String()

	var exitErr *exec.ExitError
	switch stopReason.Load() {
	case stopTimeout:
		outcome.fail(KindTimedOut, script, fmt.Sprintf("exceeded timeout of %s", timeout), nil)
		return
	case stopCanceled:
		outcome.fail(KindCanceled, script, "orchestrator interrupted", ctx.Err())
		return
	}
	switch {
	case waitErr == nil:
		outcome.Kind = KindSuccess
		outcome.ExitCode = 0
		if drainErr != nil {
			logging.WarnWithContext(logger, "script output truncated", "script_output_truncated",
				logging.Script(script),
				logging.Error(drainErr),
				logging.String(logging.FieldImpact, "captured output may be incomplete"),
			)
		}
	case errors.As(waitErr, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
		outcome.fail(KindNonZeroExit, script, fmt.Sprintf("exit status %d", outcome.ExitCode), waitErr)
	default:
		outcome.fail(KindLaunchError, script, "wait for process", waitErr)
	}
}

func (r *Runner) signalGroup(pgid int, sig syscall.Signal) {
	if err := unix.Kill(-pgid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		r.logger.Debug("signal process group failed",
			logging.Int("pgid", pgid),
			logging.String("signal", unix.SignalName(sig)),
			logging.Error(err),
		)
	}
}

func (r *Runner) killGrace() time.Duration {
	if r.cfg == nil || r.cfg.KillGrace() <= 0 {
		return 0
	}
	return r.cfg.KillGrace()
}

// commandLine prefixes the configured interpreter for the script's extension.
func (r *Runner) commandLine(script string, args []string) []string {
	argv := make([]string, 0, len(args)+2)
	if r.cfg != nil {
		if interpreter, ok := r.cfg.InterpreterFor(script); ok {
			argv = append(argv, interpreter)
		}
	}
	argv = append(argv, script)
	return append(argv, args...)
}

func (r *Runner) logOutcome(logger *slog.Logger, script string, outcome Outcome, timeout time.Duration) {
	failed := !outcome.Succeeded()
	if out := strings.TrimSpace(outcome.Stdout); out != "" {
		logger.Info("script stdout",
			logging.Script(script),
			logging.String("stdout", outcome.Stdout),
		)
	}
	if errOut := strings.TrimSpace(outcome.Stderr); errOut != "" {
		attrs := logging.Args(
			logging.Script(script),
			logging.String("stderr", outcome.Stderr),
		)
		if failed {
			logger.Error("script stderr", attrs...)
		} else {
			logger.Info("script stderr", attrs...)
		}
	}

	if !failed {
		logger.Info("script succeeded",
			logging.String(logging.FieldEventType, "script_complete"),
			logging.Script(script),
			logging.Outcome(string(outcome.Kind)),
			logging.ExitCode(outcome.ExitCode),
			logging.Duration("duration", outcome.Duration),
		)
		return
	}
	attrs := []logging.Attr{
		logging.Script(script),
		logging.Outcome(string(outcome.Kind)),
		logging.ErrorKind(failures.KindOf(outcome.Err)),
		logging.Duration("duration", outcome.Duration),
		logging.Error(outcome.Err),
	}
	switch outcome.Kind {
	case KindNonZeroExit:
		attrs = append(attrs, logging.ExitCode(outcome.ExitCode))
	case KindTimedOut:
		attrs = append(attrs,
			logging.Duration("timeout", timeout),
			logging.String(logging.FieldErrorHint, "raise --script-timeout or runner.script_timeout_seconds"),
		)
	case KindLaunchError:
		attrs = append(attrs, logging.String(logging.FieldErrorHint, "check the interpreter in runner.interpreters and the script's execute permission"))
	}
	logging.ErrorWithContext(logger, "script failed", "script_failed", attrs...)
}
