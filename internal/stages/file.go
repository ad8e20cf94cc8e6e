package stages

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed table_schema.json
var tableSchema []byte

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(tableSchema))
	})
	return compiledSchema, compileErr
}

// Row is one entry of a workflow table file. A row either maps a selector to
// scripts or replaces the stage's trailing scripts.
type Row struct {
	Stage    Name         `yaml:"stage"`
	Selector string       `yaml:"selector,omitempty"`
	Scripts  []Invocation `yaml:"scripts,omitempty"`
	Trailing []Invocation `yaml:"trailing,omitempty"`
}

type tableFile struct {
	Rows []Row `yaml:"rows"`
}

// ValidationError lists every schema or path violation in a table file.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("workflow table %s is invalid: %s", e.Path, strings.Join(e.Problems, "; "))
}

// LoadTableFile reads a YAML table file, validates it, and returns base with
// the file's rows merged over it. base is not modified.
func LoadTableFile(path string, base Table) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read workflow table: %w", err)
	}
	rows, err := ParseTable(path, data)
	if err != nil {
		return Table{}, err
	}
	merged := base.clone()
	merged.Apply(rows)
	return merged, nil
}

// ParseTable validates raw YAML against the table schema and decodes its rows.
// source names the document in error messages.
func ParseTable(source string, data []byte) ([]Row, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse workflow table %s: %w", source, err)
	}
	if doc == nil {
		return nil, &ValidationError{Path: source, Problems: []string{"document is empty"}}
	}

	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("compile workflow table schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate workflow table %s: %w", source, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, &ValidationError{Path: source, Problems: problems}
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode workflow table %s: %w", source, err)
	}
	var problems []string
	for i, row := range file.Rows {
		for _, inv := range append(append([]Invocation(nil), row.Scripts...), row.Trailing...) {
			if !filepath.IsLocal(filepath.FromSlash(inv.Script)) {
				problems = append(problems, fmt.Sprintf("rows.%d: script %q must be a relative path inside the scripts directory", i, inv.Script))
			}
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Path: source, Problems: problems}
	}
	return file.Rows, nil
}

// Apply merges rows into t in file order.
func (t Table) Apply(rows []Row) {
	for _, row := range rows {
		if row.Selector != "" {
			t.setEntry(row.Stage, Entry{Selector: row.Selector, Invocations: cloneInvocations(row.Scripts)})
			continue
		}
		t.setTrailing(row.Stage, cloneInvocations(row.Trailing))
	}
}

func (t Table) clone() Table {
	out := Table{stages: make(map[Name]*stageRows, len(t.stages))}
	for name, rows := range t.stages {
		copied := &stageRows{
			selectors: append([]string(nil), rows.selectors...),
			trailing:  cloneInvocations(rows.trailing),
		}
		for _, entry := range rows.entries {
			copied.entries = append(copied.entries, Entry{Selector: entry.Selector, Invocations: cloneInvocations(entry.Invocations)})
		}
		out.stages[name] = copied
	}
	return out
}

// IsValidationError reports whether err came from table validation.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
