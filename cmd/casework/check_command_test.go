package main

import (
	"strings"
	"testing"
)

var builtinScripts = []string{
	"scraping/fetch_irs_990_forms.py",
	"datashare_interactions/create_datashare_project.py",
	"parsers/parse_irs_990xml.py",
	"analysis/entity_resolution.py",
	"analysis/generate_connections_report.py",
}

func TestCheckReportsMissingScripts(t *testing.T) {
	env := setupCLITestEnv(t)
	env.installScript(t, builtinScripts[0], "exit 0")

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	requireExitCode(t, err, 1)
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "Interpreter (.py)")
	requireContains(t, out, "4 of")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, builtinScripts[0]) && !strings.Contains(line, "[OK]") {
			t.Fatalf("installed script should pass: %q", line)
		}
	}
}

func TestCheckPassesWithAllScripts(t *testing.T) {
	env := setupCLITestEnv(t)
	for _, script := range builtinScripts {
		env.installScript(t, script, "exit 0")
	}

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "all ")
	requireContains(t, out, "checks passed")
}
