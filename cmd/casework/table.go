package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"casework/internal/workflow"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderStageSummary renders the end-of-run table followed by the overall
// verdict line.
func renderStageSummary(result workflow.Result, colorize bool) string {
	var b strings.Builder
	if len(result.Stages) > 0 {
		rows := make([][]string, 0, len(result.Stages))
		for _, rec := range result.Stages {
			rows = append(rows, []string{
				rec.Stage.Label(),
				rec.Selector,
				colorStatus(rec.Status, colorize),
				formatElapsed(rec.Duration),
				strconv.Itoa(rec.Scripts),
			})
		}
		b.WriteString(renderTable(
			[]string{"Stage", "Selector", "Status", "Duration", "Scripts"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
		))
		b.WriteString("\n")
	}

	switch {
	case result.Succeeded:
		b.WriteString(statusLine("Workflow", verdictOK, fmt.Sprintf("case %s completed in %s", result.Case, formatElapsed(result.Duration)), colorize))
	case result.Err != nil:
		b.WriteString(statusLine("Workflow", verdictError, result.Err.Error(), colorize))
	default:
		b.WriteString(statusLine("Workflow", verdictError, fmt.Sprintf("%d stage(s) failed for case %s", len(result.Failed()), result.Case), colorize))
	}
	return b.String()
}

func colorStatus(status workflow.Status, colorize bool) string {
	return paint(string(status), stageStatusColors[status], colorize)
}

func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
