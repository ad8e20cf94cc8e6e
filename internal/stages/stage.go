package stages

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name identifies one workflow stage.
type Name string

const (
	Setup     Name = "setup"
	Acquire   Name = "acquire"
	Datashare Name = "datashare"
	Parse     Name = "parse"
	Analyze   Name = "analyze"
	Package   Name = "package"
)

// All requests every stage, or every entry of a stage when used as a selector.
const All = "all"

var canonical = []Name{Setup, Acquire, Datashare, Parse, Analyze, Package}

// Canonical returns the stages in workflow order.
func Canonical() []Name {
	return append([]Name(nil), canonical...)
}

// ParseName maps user input to a stage. "all" is not a stage and is rejected
// here; callers expand it with Canonical.
func ParseName(value string) (Name, error) {
	candidate := Name(strings.ToLower(strings.TrimSpace(value)))
	for _, name := range canonical {
		if candidate == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (expected one of %s)", value, strings.Join(ChoiceList(), ", "))
}

// ChoiceList returns the accepted --stage values including "all".
func ChoiceList() []string {
	out := make([]string, 0, len(canonical)+1)
	for _, name := range canonical {
		out = append(out, string(name))
	}
	return append(out, All)
}

func (n Name) String() string { return string(n) }

// Label returns the display form used in banners and summaries ("Datashare").
func (n Name) Label() string {
	return cases.Title(language.Und).String(string(n))
}

// Request asks for one stage with an optional selector.
type Request struct {
	Stage    Name
	Selector string
	Timeout  time.Duration
}

// SelectsAll reports whether the selector is unset or "all".
func (r Request) SelectsAll() bool {
	s := strings.TrimSpace(r.Selector)
	return s == "" || strings.EqualFold(s, All)
}

// Invocation is one script run derived from a stage and selector. Script is
// relative to the scripts directory.
type Invocation struct {
	Script string   `yaml:"path"`
	Args   []string `yaml:"args,omitempty"`
}
