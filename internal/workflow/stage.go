package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"casework/internal/failures"
	"casework/internal/investigation"
	"casework/internal/logging"
	"casework/internal/stages"
)

// runStage executes one stage, converting panics into failed records.
func (c *Controller) runStage(ctx context.Context, stage stages.Name, selector string, caseRef investigation.Case, timeout time.Duration) (record StageRecord) {
	started := time.Now()
	ctx = logging.WithStage(ctx, string(stage))
	logger := logging.WithContext(ctx, c.logger)
	record = StageRecord{Stage: stage, Selector: selector}

	defer func() {
		if recovered := recover(); recovered != nil {
			err := failures.Wrap(failures.ErrUnexpected, string(stage), "run stage", fmt.Sprintf("panic: %v", recovered), nil)
			logging.ErrorWithContext(logger, "unexpected failure during stage", "stage_panic",
				logging.ErrorKind(failures.KindOf(err)),
				logging.Error(err),
				logging.String("stack", string(debug.Stack())),
			)
			record.Status = StatusFailed
			record.Err = err
		}
		record.Duration = time.Since(started)
	}()

	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("banner", "--- "+strings.ToUpper(stage.Label())+" ---"),
		logging.String("selector", selectorLabel(selector)),
	)

	scripts, err := c.executeStage(ctx, logger, stage, selector, caseRef, timeout)
	record.Scripts = scripts
	if err != nil {
		record.Status = StatusFailed
		record.Err = err
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failure"),
			logging.ErrorKind(failures.KindOf(err)),
			logging.Error(err),
			logging.Alert("stage_failure"),
		)
		return record
	}
	record.Status = StatusSucceeded
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("scripts", scripts),
		logging.Duration("stage_duration", time.Since(started)),
	)
	return record
}

func (c *Controller) executeStage(ctx context.Context, logger *slog.Logger, stage stages.Name, selector string, caseRef investigation.Case, timeout time.Duration) (int, error) {
	if stage == stages.Setup {
		created, err := caseRef.Setup()
		if err != nil {
			return 0, err
		}
		logger.Info("case layout ensured",
			logging.String("case_dir", caseRef.Dir),
			logging.Int("created_dirs", len(created)),
			logging.Int("layout_dirs", len(investigation.Layout)),
		)
		return 0, nil
	}

	if !caseRef.Exists() {
		logging.ErrorWithContext(logger, "investigation directory not found", "case_missing",
			logging.String("case_dir", caseRef.Dir),
			logging.String(logging.FieldErrorHint, "run the setup stage for this case first"),
		)
		return 0, failures.Wrap(failures.ErrStage, string(stage), "check case directory",
			fmt.Sprintf("investigation directory %s not found", caseRef.Dir), nil)
	}

	if stage == stages.Package {
		logger.Info("no packaging scripts configured; package stage is a placeholder")
		return 0, nil
	}

	invocations := c.resolver.Resolve(stages.Request{Stage: stage, Selector: selector, Timeout: timeout})
	result := c.executor.Execute(ctx, stage, invocations, caseRef, timeout)
	if result.Succeeded {
		return len(result.Scripts), nil
	}
	failed := result.Failed()
	parts := make([]string, 0, len(failed))
	for _, script := range failed {
		parts = append(parts, fmt.Sprintf("%s (%s)", script.Invocation.Script, script.Outcome.Kind))
	}
	return len(result.Scripts), failures.Wrap(failures.ErrStage, string(stage), "run scripts",
		fmt.Sprintf("%d of %d scripts failed: %s", len(failed), len(result.Scripts), strings.Join(parts, ", ")), nil)
}

func selectorLabel(selector string) string {
	if strings.TrimSpace(selector) == "" {
		return stages.All
	}
	return selector
}
