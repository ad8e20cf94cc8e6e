// Package investigation owns case identity and the on-disk case layout.
//
// Case names are validated before any path is derived from them; New is the
// only way to obtain a Case, so every Case in the program carries a name that
// cannot escape the investigations root. Setup creates the fixed directory
// tree child scripts write into, and Lock serializes orchestrator runs that
// target the same case.
package investigation
