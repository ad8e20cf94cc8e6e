// Package runner launches one external script and classifies how it ended.
//
// Scripts run in their own process group with the install root as working
// directory. Output is drained concurrently with the wait, a watchdog
// enforces the timeout by signalling the whole group (SIGTERM, then SIGKILL
// after a grace period), and the result is returned as an Outcome value
// rather than an error so callers decide how to continue.
package runner
