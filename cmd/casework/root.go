package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"casework/internal/stages"
	"casework/internal/workflow"
)

// runFlags holds the values of the root command's workflow flags.
type runFlags struct {
	stages          []string
	acquireType     string
	datashareAction string
	parseType       string
	reportType      string
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var rootFlag string
	var flags runFlags

	ctx := newCommandContext(&configFlag, &rootFlag)

	rootCmd := &cobra.Command{
		Use:   "casework <case_name> --stage <stage> [--stage <stage>...]",
		Short: "Run investigative workflow stages for a case",
		Long: "casework drives the investigative workflow for one case: setup, acquire,\n" +
			"datashare, parse, analyze, and package. Each stage delegates to the\n" +
			"scripts configured for it; every run writes one timestamped log file.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("script-timeout") && ctx.timeoutSeconds <= 0 {
				return errors.New("--script-timeout must be a positive number of seconds")
			}
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateStageFlags(flags.stages); err != nil {
				return err
			}
			return runWorkflow(cmd, ctx, args[0], flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Install root (overrides paths.root_dir)")

	choices := strings.Join(stages.ChoiceList(), ", ")
	rootCmd.Flags().StringArrayVar(&flags.stages, "stage", nil, fmt.Sprintf("Stage to run; repeatable (%s)", choices))
	rootCmd.Flags().IntVar(&ctx.timeoutSeconds, "script-timeout", 0, "Per-script timeout in seconds (overrides runner.script_timeout_seconds)")
	rootCmd.Flags().StringVar(&flags.acquireType, "acquire-type", "", "Document type for the acquire stage")
	rootCmd.Flags().StringVar(&flags.datashareAction, "datashare-action", "", "Action for the datashare stage")
	rootCmd.Flags().StringVar(&flags.parseType, "parse-type", "", "Document type for the parse stage")
	rootCmd.Flags().StringVar(&flags.reportType, "report-type", "", "Report type for the analyze stage")
	rootCmd.Flags().StringVar(&ctx.tableFile, "workflow-file", "", "YAML file with extra stage resolution rows")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))

	return rootCmd
}

func validateStageFlags(values []string) error {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), stages.All) {
			continue
		}
		if _, err := stages.ParseName(value); err != nil {
			return fmt.Errorf("invalid --stage: %w", err)
		}
	}
	if _, err := workflow.Plan(values); err != nil {
		return fmt.Errorf("invalid --stage: %w", err)
	}
	return nil
}

// selectors maps the per-stage selector flags onto the stages they refine,
// rejecting values the resolution table does not recognize.
func (f runFlags) selectors(table stages.Table) (map[stages.Name]string, error) {
	values := []struct {
		flag  string
		stage stages.Name
		value string
	}{
		{"--acquire-type", stages.Acquire, f.acquireType},
		{"--datashare-action", stages.Datashare, f.datashareAction},
		{"--parse-type", stages.Parse, f.parseType},
		{"--report-type", stages.Analyze, f.reportType},
	}
	selectors := make(map[stages.Name]string)
	for _, v := range values {
		value := strings.TrimSpace(v.value)
		if value == "" {
			continue
		}
		if err := table.ValidateSelector(v.stage, value); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", v.flag, err)
		}
		selectors[v.stage] = value
	}
	return selectors, nil
}
