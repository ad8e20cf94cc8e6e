package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"casework/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, interpreters, and workflow scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			table, err := loadTable(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			results := preflight.RunAll(cfg, table.Scripts())

			fmt.Fprintln(out, "== Preflight ==")
			for _, line := range checkLines(results, colorize) {
				fmt.Fprintln(out, line)
			}

			failed := preflight.Failed(results)
			if len(failed) > 0 {
				fmt.Fprintln(out, statusLine("Summary", verdictError, fmt.Sprintf("%d of %d checks failed", len(failed), len(results)), colorize))
				return exitError{code: 1}
			}
			fmt.Fprintln(out, statusLine("Summary", verdictOK, fmt.Sprintf("all %d checks passed", len(results)), colorize))
			return nil
		},
	}
}
