package failures

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCaseName = errors.New("invalid case name")
	ErrSetup           = errors.New("setup failure")
	ErrStage           = errors.New("stage failure")
	ErrScriptExecution = errors.New("script execution failure")
	ErrUnexpected      = errors.New("unexpected failure")
)

// Script-level markers. Each one is also tagged with ErrScriptExecution when
// produced through WrapScript.
var (
	ErrScriptNotFound = errors.New("script not found")
	ErrNonZeroExit    = errors.New("non-zero exit")
	ErrTimeout        = errors.New("timed out")
	ErrLaunch         = errors.New("launch error")
	ErrCanceled       = errors.New("canceled")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker. The marker should be one of the sentinels above;
// nil falls back to ErrUnexpected.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrUnexpected
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// WrapScript tags err with ErrScriptExecution and the script-level kind.
func WrapScript(kind error, script, message string, err error) error {
	detail := buildDetail("", script, message)
	if kind == nil {
		return Wrap(ErrScriptExecution, "", script, message, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w: %s: %w", ErrScriptExecution, kind, detail, err)
	}
	return fmt.Errorf("%w: %w: %s", ErrScriptExecution, kind, detail)
}

// KindOf maps an error to its taxonomy label.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCaseName):
		return "InvalidCaseName"
	case errors.Is(err, ErrSetup):
		return "SetupFailure"
	case errors.Is(err, ErrScriptExecution):
		return "ScriptExecutionFailure"
	case errors.Is(err, ErrStage):
		return "StageFailure"
	default:
		return "UnexpectedFailure"
	}
}

// ScriptKindOf returns the script-level label (NotFound, NonZeroExit, ...)
// or an empty string when err carries no script marker.
func ScriptKindOf(err error) string {
	switch {
	case errors.Is(err, ErrScriptNotFound):
		return "NotFound"
	case errors.Is(err, ErrNonZeroExit):
		return "NonZeroExit"
	case errors.Is(err, ErrTimeout):
		return "TimedOut"
	case errors.Is(err, ErrLaunch):
		return "LaunchError"
	case errors.Is(err, ErrCanceled):
		return "Canceled"
	default:
		return ""
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "orchestrator failure"
	}
	return strings.Join(parts, ": ")
}
