package stages

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Entry maps one selector to its ordered invocations.
type Entry struct {
	Selector    string
	Invocations []Invocation
}

type stageRows struct {
	selectors []string
	entries   []Entry
	trailing  []Invocation
}

// Table holds the resolution rows for every stage.
type Table struct {
	stages map[Name]*stageRows
}

// DefaultTable returns the built-in resolution table. Each call returns an
// independent copy.
func DefaultTable() Table {
	t := Table{stages: make(map[Name]*stageRows, len(canonical))}
	for _, name := range canonical {
		t.stages[name] = &stageRows{}
	}
	t.stages[Acquire].selectors = []string{"irs_990s", "corporate", "campaign", "lobbying", "property"}
	t.stages[Acquire].entries = []Entry{
		{Selector: "irs_990s", Invocations: []Invocation{{Script: "scraping/fetch_irs_990_forms.py"}}},
	}
	t.stages[Datashare].selectors = []string{"create_project", "upload", "query_entities"}
	t.stages[Datashare].entries = []Entry{
		{Selector: "create_project", Invocations: []Invocation{{Script: "datashare_interactions/create_datashare_project.py"}}},
	}
	t.stages[Parse].selectors = []string{"irs_990s", "corporate", "campaign", "lobbying"}
	t.stages[Parse].entries = []Entry{
		{Selector: "irs_990s", Invocations: []Invocation{{Script: "parsers/parse_irs_990xml.py"}}},
	}
	t.stages[Parse].trailing = []Invocation{{Script: "analysis/entity_resolution.py"}}
	t.stages[Analyze].selectors = []string{"connections", "network_graph", "financial_patterns"}
	t.stages[Analyze].entries = []Entry{
		{Selector: "connections", Invocations: []Invocation{{Script: "analysis/generate_connections_report.py"}}},
	}
	return t
}

// Selectors returns the accepted selector values for stage, with "all" last.
// Stages that take no selector return nil.
func (t Table) Selectors(stage Name) []string {
	rows := t.stages[stage]
	if rows == nil || len(rows.selectors) == 0 {
		return nil
	}
	return append(slices.Clone(rows.selectors), All)
}

// ValidateSelector checks value against the accepted selectors for stage.
// Empty values are always accepted.
func (t Table) ValidateSelector(stage Name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	accepted := t.Selectors(stage)
	if len(accepted) == 0 {
		return fmt.Errorf("stage %s does not take a selector", stage)
	}
	if !slices.Contains(accepted, value) {
		return fmt.Errorf("invalid %s selector %q (expected one of %s)", stage, value, strings.Join(accepted, ", "))
	}
	return nil
}

// Entries returns a copy of the selector rows for stage in table order.
func (t Table) Entries(stage Name) []Entry {
	rows := t.stages[stage]
	if rows == nil {
		return nil
	}
	out := make([]Entry, len(rows.entries))
	for i, entry := range rows.entries {
		out[i] = Entry{Selector: entry.Selector, Invocations: cloneInvocations(entry.Invocations)}
	}
	return out
}

// Trailing returns the invocations appended after a full-stage run.
func (t Table) Trailing(stage Name) []Invocation {
	rows := t.stages[stage]
	if rows == nil {
		return nil
	}
	return cloneInvocations(rows.trailing)
}

// Scripts lists every distinct script referenced by the table, sorted.
func (t Table) Scripts() []string {
	seen := make(map[string]struct{})
	for _, rows := range t.stages {
		for _, entry := range rows.entries {
			for _, inv := range entry.Invocations {
				seen[inv.Script] = struct{}{}
			}
		}
		for _, inv := range rows.trailing {
			seen[inv.Script] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for script := range seen {
		out = append(out, script)
	}
	sort.Strings(out)
	return out
}

// setEntry replaces the row for selector or appends it, registering the
// selector as accepted.
func (t Table) setEntry(stage Name, entry Entry) {
	rows := t.stages[stage]
	if rows == nil {
		rows = &stageRows{}
		t.stages[stage] = rows
	}
	if !slices.Contains(rows.selectors, entry.Selector) {
		rows.selectors = append(rows.selectors, entry.Selector)
	}
	for i := range rows.entries {
		if rows.entries[i].Selector == entry.Selector {
			rows.entries[i] = entry
			return
		}
	}
	rows.entries = append(rows.entries, entry)
}

func (t Table) setTrailing(stage Name, invocations []Invocation) {
	rows := t.stages[stage]
	if rows == nil {
		rows = &stageRows{}
		t.stages[stage] = rows
	}
	rows.trailing = invocations
}

func cloneInvocations(in []Invocation) []Invocation {
	if len(in) == 0 {
		return nil
	}
	out := make([]Invocation, len(in))
	for i, inv := range in {
		out[i] = Invocation{Script: inv.Script, Args: slices.Clone(inv.Args)}
	}
	return out
}
