// Package preflight provides readiness checks for the filesystem layout,
// interpreters, and scripts that casework depends on.
//
// The CLI "casework check" command calls RunAll and renders every Result.
// Workflow runs do not call it: a missing script surfaces as a NotFound
// outcome on the stage that needs it, so one bad selector cannot block
// stages that would otherwise succeed.
package preflight
