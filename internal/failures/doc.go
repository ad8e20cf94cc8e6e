// Package failures defines the orchestrator's error taxonomy.
//
// Errors are tagged with one of the exported sentinel markers through Wrap so
// callers can classify them with errors.Is without string matching. KindOf
// turns any error into the label written to the log as error_kind, which is
// how operators tell an invalid case name apart from a script that timed out.
package failures
