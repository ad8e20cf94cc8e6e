package workflow

import (
	"errors"
	"strings"

	"casework/internal/stages"
)

// Plan turns raw --stage values into the ordered stage list. Any "all"
// selects the canonical order; otherwise the given order is kept as is.
func Plan(requested []string) ([]stages.Name, error) {
	if len(requested) == 0 {
		return nil, errors.New("at least one --stage is required")
	}
	for _, value := range requested {
		if strings.EqualFold(strings.TrimSpace(value), stages.All) {
			return stages.Canonical(), nil
		}
	}
	plan := make([]stages.Name, 0, len(requested))
	for _, value := range requested {
		name, err := stages.ParseName(value)
		if err != nil {
			return nil, err
		}
		plan = append(plan, name)
	}
	return plan, nil
}
