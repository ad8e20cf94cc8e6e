package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newRootCommand(), os.Stderr)
	stop()
	os.Exit(code)
}

// exitError carries a process exit status for failures that were already
// reported through the run log and summary.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// execute runs cmd and maps its result to a process exit code. A panic
// outside the stage guard is reported on errOut and exits 1.
func execute(ctx context.Context, cmd interface {
	ExecuteContext(context.Context) error
}, errOut io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errOut, "casework: unexpected error: %v\n%s", r, debug.Stack())
			code = 1
		}
	}()
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exitErr exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(errOut, err)
	}
	return 1
}
