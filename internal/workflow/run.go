package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"casework/internal/failures"
	"casework/internal/investigation"
	"casework/internal/logging"
	"casework/internal/stages"
)

// Run executes req and returns a complete Result. It never panics and never
// returns early without a Result; callers map it to an exit code.
func (c *Controller) Run(ctx context.Context, req Request) Result {
	started := time.Now()
	result := Result{RunID: c.runID, Case: req.Case, LogPath: c.logPath}
	ctx = logging.WithRunID(logging.WithCase(ctx, req.Case), c.runID)
	logger := logging.WithContext(ctx, c.logger)
	timeout := c.timeout(req)

	logger.Info("workflow starting",
		logging.String(logging.FieldEventType, "workflow_start"),
		logging.String("requested_stages", strings.Join(req.Stages, ", ")),
		logging.Duration("timeout", timeout),
		logging.String("log_file", c.logPath),
	)

	finish := func() Result {
		result.Duration = time.Since(started)
		c.logSummary(logger, result)
		return result
	}

	plan, err := Plan(req.Stages)
	if err != nil {
		result.Err = failures.Wrap(failures.ErrStage, "", "plan stages", "invalid stage request", err)
		logging.ErrorWithContext(logger, "workflow halted: invalid stage request", "workflow_invalid_request",
			logging.ErrorKind(failures.KindOf(result.Err)),
			logging.Error(err),
		)
		return finish()
	}

	caseRef, err := investigation.New(c.cfg.Paths.InvestigationsDir, req.Case)
	if err != nil {
		result.Err = err
		logging.ErrorWithContext(logger, "workflow halted due to invalid case name", "invalid_case_name",
			logging.ErrorKind(failures.KindOf(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "use only letters, digits, underscores, hyphens, and periods"),
		)
		return finish()
	}

	if c.cfg.Workflow.LockCases {
		lock, err := investigation.Lock(c.cfg.LocksDir(), caseRef)
		if err != nil {
			result.Err = err
			hint := "check permissions on the log directory"
			if errors.Is(err, investigation.ErrLocked) {
				hint = "wait for the other run on this case to finish"
			}
			logging.ErrorWithContext(logger, "workflow halted: case lock unavailable", "case_locked",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, hint),
			)
			return finish()
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("failed to release case lock", logging.Error(err), logging.String("lock", lock.Path()))
			}
		}()
	}

	logger.Info("stage plan resolved", logging.String("plan", joinStages(plan)))

	// blocked is set by non-setup failures only: a failed setup does not
	// cause later stages to be skipped.
	blocked := false
	result.Succeeded = true
	for _, stage := range plan {
		selector := req.Selectors[stage]
		if blocked && stage != stages.Setup {
			logging.WarnWithContext(logging.WithContext(logging.WithStage(ctx, string(stage)), c.logger),
				"skipping stage due to failure in a preceding stage", "stage_skipped",
				logging.String(logging.FieldImpact, "stage not run"),
				logging.String(logging.FieldErrorHint, "fix the earlier failure and rerun this stage"),
			)
			result.Stages = append(result.Stages, StageRecord{Stage: stage, Selector: selector, Status: StatusSkipped})
			continue
		}
		record := c.runStage(ctx, stage, selector, caseRef, timeout)
		result.Stages = append(result.Stages, record)
		if record.Status == StatusFailed {
			result.Succeeded = false
			if stage != stages.Setup {
				blocked = true
			}
		}
	}
	return finish()
}

func joinStages(plan []stages.Name) string {
	names := make([]string, len(plan))
	for i, stage := range plan {
		names[i] = string(stage)
	}
	return strings.Join(names, " → ")
}

func (c *Controller) logSummary(logger *slog.Logger, result Result) {
	if result.Succeeded {
		logger.Info("workflow concluded successfully",
			logging.String(logging.FieldEventType, "workflow_complete"),
			logging.Duration("duration", result.Duration),
		)
		return
	}
	attrs := []logging.Attr{
		logging.Int("failed_stages", len(result.Failed())),
		logging.Duration("duration", result.Duration),
		logging.String("log_file", result.LogPath),
		logging.String(logging.FieldErrorHint, "review the log file for detailed error messages"),
	}
	if result.Err != nil {
		attrs = append(attrs, logging.ErrorKind(failures.KindOf(result.Err)), logging.Error(result.Err))
	}
	logging.ErrorWithContext(logger, "workflow concluded with one or more failed stages", "workflow_failed", attrs...)
}
