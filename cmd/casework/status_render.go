package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"casework/internal/preflight"
	"casework/internal/workflow"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const statusLabelWidth = 28

// verdict is the bracketed severity on a status line.
type verdict string

const (
	verdictOK    verdict = "OK"
	verdictWarn  verdict = "WARN"
	verdictError verdict = "ERROR"
)

var verdictColors = map[verdict]string{
	verdictOK:    ansiGreen,
	verdictWarn:  ansiYellow,
	verdictError: ansiRed,
}

var stageStatusColors = map[workflow.Status]string{
	workflow.StatusSucceeded: ansiGreen,
	workflow.StatusFailed:    ansiRed,
	workflow.StatusSkipped:   ansiYellow,
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

func statusLine(label string, v verdict, message string, colorize bool) string {
	line := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", v)
	if message != "" {
		line += " " + message
	}
	return paint(line, verdictColors[v], colorize)
}

// checkLines renders preflight results, one status line each. Optional
// failures render as warnings.
func checkLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, result := range results {
		v := verdictOK
		switch {
		case result.Passed:
		case result.Optional:
			v = verdictWarn
		default:
			v = verdictError
		}
		lines = append(lines, statusLine(result.Name, v, result.Detail, colorize))
	}
	return lines
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
