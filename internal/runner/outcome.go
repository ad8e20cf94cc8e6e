package runner

import (
	"time"

	"casework/internal/failures"
)

// Kind classifies how a script invocation ended.
type Kind string

const (
	KindSuccess     Kind = "Success"
	KindNonZeroExit Kind = "NonZeroExit"
	KindTimedOut    Kind = "TimedOut"
	KindNotFound    Kind = "NotFound"
	KindLaunchError Kind = "LaunchError"
	KindCanceled    Kind = "Canceled"
)

func (k Kind) marker() error {
	switch k {
	case KindNonZeroExit:
		return failures.ErrNonZeroExit
	case KindTimedOut:
		return failures.ErrTimeout
	case KindNotFound:
		return failures.ErrScriptNotFound
	case KindLaunchError:
		return failures.ErrLaunch
	case KindCanceled:
		return failures.ErrCanceled
	default:
		return nil
	}
}

// Outcome is the classified result of one script invocation.
type Outcome struct {
	Kind Kind
	// ExitCode is meaningful for Success and NonZeroExit; -1 when the process
	// was terminated by a signal.
	ExitCode int
	Stdout   string
	Stderr   string
	// Err is nil on success and is tagged with failures.ErrScriptExecution
	// plus the kind-specific marker otherwise.
	Err      error
	Command  []string
	Duration time.Duration
}

// Succeeded reports whether the script exited zero within its deadline.
func (o Outcome) Succeeded() bool {
	return o.Kind == KindSuccess
}

// fail records a non-success kind and tags err with the matching marker.
func (o *Outcome) fail(kind Kind, script, message string, err error) {
	o.Kind = kind
	o.Err = failures.WrapScript(kind.marker(), script, message, err)
}
