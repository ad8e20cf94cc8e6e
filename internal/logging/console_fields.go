package logging

import (
	"log/slog"
	"strings"
)

type infoField struct {
	label string
	value string
}

// infoHighlightKeys are rendered first, in this order, at info level and above.
var infoHighlightKeys = []string{
	FieldAlert,
	FieldEventType,
	FieldErrorKind,
	FieldScript,
	"command",
	FieldOutcome,
	FieldExitCode,
	"timeout",
	"duration",
	"error",
	FieldErrorHint,
	FieldImpact,
	"stdout",
	"stderr",
}

// selectInfoFields orders highlighted keys first and drops keys that are
// already part of the header or only useful when debugging.
func selectInfoFields(attrs []kv) []infoField {
	if len(attrs) == 0 {
		return nil
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, len(attrs))
	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if used[idx] || attr.key != key {
				continue
			}
			used[idx] = true
			result = append(result, infoField{label: displayLabel(attr.key), value: fieldValue(attr.key, attr.value)})
			break
		}
	}
	for idx, attr := range attrs {
		if used[idx] || skipInfoKey(attr.key) {
			continue
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: fieldValue(attr.key, attr.value)})
	}
	return result
}

func fieldValue(key string, v slog.Value) string {
	v = v.Resolve()
	if isOutputKey(key) && v.Kind() == slog.KindString {
		return strings.TrimRight(v.String(), "\n")
	}
	if isDurationKey(key) && v.Kind() == slog.KindDuration {
		return formatDurationHuman(v.Duration())
	}
	if v.Kind() == slog.KindBool {
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	return formatValue(v)
}

func isOutputKey(key string) bool {
	return key == "stdout" || key == "stderr" || key == "stack"
}

func isDurationKey(key string) bool {
	return strings.HasSuffix(key, "_duration") ||
		key == "duration" ||
		key == "timeout" ||
		key == "kill_grace"
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldComponent, FieldCase, FieldStage:
		return true
	default:
		return false
	}
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorKind:
		return "Failure"
	case FieldErrorHint:
		return "Hint"
	case FieldExitCode:
		return "Exit Code"
	case "stdout":
		return "Stdout"
	case "stderr":
		return "Stderr"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	if len(parts) == 0 {
		return key
	}
	for i, part := range parts {
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}
