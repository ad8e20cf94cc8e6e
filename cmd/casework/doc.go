// Package main hosts the casework CLI entrypoint and command graph.
//
// The root command runs workflow stages for one investigation case:
//
//	casework <case> --stage setup --stage acquire --acquire-type irs_990s
//
// Subcommands cover configuration scaffolding (config init, config validate)
// and environment readiness (check). Configuration resolution, the per-run
// log file, and the final stage summary are centralized here; the stage
// semantics live in internal/workflow.
package main
