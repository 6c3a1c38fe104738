package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"mediashelf/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show directory and external tool readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintf(out, "Config: %s (exists: %s)\n", ctx.configPath, yesNo(ctx.configSeen))
			results := preflight.RunAll(cmd.Context(), cfg)
			fmt.Fprintln(out, checksView(results, colorize).render(colorize))

			if failed := preflight.Failed(results); len(failed) > 0 {
				fmt.Fprintln(out, paint(colorize, text.FgRed, fmt.Sprintf("%d check(s) failed; run would be refused", len(failed))))
				return nil
			}
			fmt.Fprintln(out, paint(colorize, text.FgGreen, "Ready"))
			return nil
		},
	}
}

func checksView(results []preflight.Result, colorize bool) tableView {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		verdict := paint(colorize, text.FgGreen, "OK")
		if !r.Passed {
			verdict = paint(colorize, text.FgRed, "FAIL")
		}
		rows = append(rows, []string{r.Name, verdict, r.Detail})
	}
	return tableView{
		Title:   "Preflight",
		Headers: []string{"Check", "Status", "Detail"},
		Rows:    rows,
	}
}
