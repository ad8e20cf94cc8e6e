package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"casework/internal/config"
	"casework/internal/investigation"
	"casework/internal/logging"
	"casework/internal/stageexec"
	"casework/internal/stages"
)

// StageExecutor runs the invocations of one stage. *stageexec.Executor
// satisfies it.
type StageExecutor interface {
	Execute(ctx context.Context, stage stages.Name, invocations []stages.Invocation, c investigation.Case, timeout time.Duration) stageexec.Result
}

// Options wires a Controller.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Resolver *stages.Resolver
	Executor StageExecutor
	// RunID identifies the run in logs; empty generates a UUID.
	RunID string
	// LogPath is reported in the final summary.
	LogPath string
}

// Controller runs workflow requests.
type Controller struct {
	cfg      *config.Config
	logger   *slog.Logger
	resolver *stages.Resolver
	executor StageExecutor
	runID    string
	logPath  string
}

// NewController constructs a Controller. A nil Resolver uses the built-in
// table.
func NewController(opts Options) *Controller {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = stages.NewResolver(stages.DefaultTable())
	}
	return &Controller{
		cfg:      opts.Config,
		logger:   logging.NewComponentLogger(opts.Logger, "workflow"),
		resolver: resolver,
		executor: opts.Executor,
		runID:    runID,
		logPath:  opts.LogPath,
	}
}

// RunID returns the identifier stamped on this controller's runs.
func (c *Controller) RunID() string {
	return c.runID
}

func (c *Controller) timeout(req Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if c.cfg != nil {
		return c.cfg.ScriptTimeout()
	}
	return 0
}
