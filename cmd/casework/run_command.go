package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"casework/internal/config"
	"casework/internal/logging"
	"casework/internal/runner"
	"casework/internal/stageexec"
	"casework/internal/stages"
	"casework/internal/workflow"
)

func runWorkflow(cmd *cobra.Command, ctx *commandContext, caseName string, flags runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	table, err := loadTable(cfg)
	if err != nil {
		return err
	}
	selectors, err := flags.selectors(table)
	if err != nil {
		return err
	}

	started := time.Now()
	runID := uuid.NewString()
	logger, logPath, closeLog, err := openRunLogger(cmd, cfg, runID, started)
	if err != nil {
		return err
	}
	defer closeLog()

	logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath)
	if ctx.configPath != "" {
		logger.Debug("configuration resolved", logging.String("config_path", ctx.configPath))
	}

	scriptRunner := runner.New(cfg, logger)
	executor := stageexec.New(stageexec.Options{
		Logger:     logger,
		Runner:     scriptRunner,
		ScriptsDir: cfg.Paths.ScriptsDir,
		WorkDir:    cfg.Paths.RootDir,
	})
	controller := workflow.NewController(workflow.Options{
		Config:   cfg,
		Logger:   logger,
		Resolver: stages.NewResolver(table),
		Executor: executor,
		RunID:    runID,
		LogPath:  logPath,
	})

	result := controller.Run(cmd.Context(), workflow.Request{
		Case:      caseName,
		Stages:    flags.stages,
		Selectors: selectors,
		Timeout:   cfg.ScriptTimeout(),
	})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderStageSummary(result, shouldColorize(out)))
	if logPath != "" {
		fmt.Fprintf(out, "Run log: %s\n", logPath)
	}
	if code := result.ExitCode(); code != 0 {
		return exitError{code: code}
	}
	return nil
}

func loadTable(cfg *config.Config) (stages.Table, error) {
	base := stages.DefaultTable()
	if cfg.Workflow.TableFile == "" {
		return base, nil
	}
	table, err := stages.LoadTableFile(cfg.Workflow.TableFile, base)
	if err != nil {
		return stages.Table{}, fmt.Errorf("load workflow file: %w", err)
	}
	return table, nil
}

// openRunLogger opens the per-run log file. When the file cannot be created
// the run continues with console logging only and the failure is reported.
func openRunLogger(cmd *cobra.Command, cfg *config.Config, runID string, started time.Time) (*slog.Logger, string, func(), error) {
	console := cmd.ErrOrStderr()
	runLog, err := logging.OpenRun(cfg, runID, console, started)
	if err == nil {
		closeLog := func() {
			if cerr := runLog.Close(); cerr != nil {
				fmt.Fprintf(console, "close run log: %v\n", cerr)
			}
		}
		return runLog.Logger, runLog.Path, closeLog, nil
	}

	logger, cerr := logging.NewConsole(cfg, runID, console)
	if cerr != nil {
		return nil, "", nil, fmt.Errorf("create logger: %w", cerr)
	}
	logging.WarnWithContext(logger, "run log file unavailable; logging to console only", "run_log_unavailable",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions on the log directory"),
		logging.String(logging.FieldImpact, "this run leaves no log file behind"),
	)
	return logger, "", func() {}, nil
}
