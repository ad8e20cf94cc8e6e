// Package workflow sequences the requested stages for one case.
//
// The Controller validates the case name, expands "all" into the canonical
// stage order, and walks the plan one stage at a time. A failed stage marks
// the run failed and causes later non-setup stages to be skipped; setup is
// always attempted. Panics inside a stage are recovered and recorded as
// unexpected failures so the run still produces a complete Result and a
// final summary.
package workflow
