package preflight

import (
	"casework/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every preflight check for the given config and the
// scripts referenced by the effective resolution table.
func RunAll(cfg *config.Config, scripts []string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Install root", cfg.Paths.RootDir))
	results = append(results, CheckCreatableDirectory("Investigations directory", cfg.Paths.InvestigationsDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckReadableDirectory("Scripts directory", cfg.Paths.ScriptsDir))

	results = append(results, CheckInterpreters(cfg)...)

	for _, script := range scripts {
		results = append(results, CheckScript(cfg, script))
	}
	return results
}

// Failed returns the non-optional checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed && !result.Optional {
			failed = append(failed, result)
		}
	}
	return failed
}
