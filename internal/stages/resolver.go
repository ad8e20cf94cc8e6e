package stages

import "strings"

// Resolver turns stage requests into ordered invocations.
type Resolver struct {
	table Table
}

// NewResolver returns a resolver backed by table.
func NewResolver(table Table) *Resolver {
	return &Resolver{table: table}
}

// Table exposes the backing table, for selector validation and preflight.
func (r *Resolver) Table() Table {
	return r.table
}

// Resolve returns the invocations for req. An unset or "all" selector yields
// every entry in table order followed by the stage's trailing invocations. A
// specific selector yields only its entry, or nothing when the selector has
// no row yet.
func (r *Resolver) Resolve(req Request) []Invocation {
	if req.SelectsAll() {
		var out []Invocation
		for _, entry := range r.table.Entries(req.Stage) {
			out = append(out, entry.Invocations...)
		}
		return append(out, r.table.Trailing(req.Stage)...)
	}
	selector := strings.TrimSpace(req.Selector)
	for _, entry := range r.table.Entries(req.Stage) {
		if entry.Selector == selector {
			return entry.Invocations
		}
	}
	return nil
}
