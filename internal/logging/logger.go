package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"casework/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives output; nil means stdout.
	Writer io.Writer
	// Development adds source locations regardless of level.
	Development bool
}

// New constructs a slog logger writing to a single destination.
func New(opts Options) (*slog.Logger, error) {
	handler, err := newHandler(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

func newHandler(opts Options) (slog.Handler, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	addSource := opts.Development || levelVar.Level() <= slog.LevelDebug

	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		return newPrettyHandler(w, levelVar, addSource), nil
	case "json":
		return newJSONHandler(w, levelVar, addSource), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// RunLog is the logger for one orchestrator invocation: console output plus
// a timestamped file under the log directory.
type RunLog struct {
	Logger *slog.Logger
	Path   string
	file   *os.File
}

// RunLogName returns the file name used for a run started at ts.
func RunLogName(ts time.Time) string {
	return "orchestrator_" + ts.Format("20060102_150405") + ".log"
}

// OpenRun creates the run log file under cfg.Paths.LogDir and returns a
// logger that tees every record to console and file, stamped with runID.
func OpenRun(cfg *config.Config, runID string, console io.Writer, started time.Time) (*RunLog, error) {
	if cfg == nil {
		return nil, fmt.Errorf("open run log: missing config")
	}
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	path := filepath.Join(cfg.Paths.LogDir, RunLogName(started))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	consoleHandler, err := newHandler(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Writer: console})
	if err != nil {
		file.Close()
		return nil, err
	}
	fileHandler, err := newHandler(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Writer: file})
	if err != nil {
		file.Close()
		return nil, err
	}

	handler := newRunIDHandler(TeeHandler(consoleHandler, fileHandler), runID)
	return &RunLog{Logger: slog.New(handler), Path: path, file: file}, nil
}

// NewConsole builds a console-only logger, used when no run file can be
// opened or for commands that do not execute a workflow.
func NewConsole(cfg *config.Config, runID string, console io.Writer) (*slog.Logger, error) {
	opts := Options{Level: "info", Format: "console", Writer: console}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
	}
	handler, err := newHandler(opts)
	if err != nil {
		return nil, err
	}
	return slog.New(newRunIDHandler(handler, runID)), nil
}

// Close flushes and closes the run log file.
func (r *RunLog) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	if err := r.file.Sync(); err != nil {
		r.file.Close()
		return fmt.Errorf("sync log file: %w", err)
	}
	return r.file.Close()
}

func newJSONHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			if err, ok := attr.Value.Any().(error); ok && attr.Value.Kind() == slog.KindAny {
				attr.Value = slog.StringValue(err.Error())
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
