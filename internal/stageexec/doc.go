// Package stageexec runs the invocations resolved for one stage.
//
// Invocations run strictly in order and every one is attempted even when an
// earlier sibling failed. Script failures are logged and folded into the
// stage Result; nothing propagates as an error or panic.
package stageexec
