package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"mediashelf/internal/organizer"
	"mediashelf/internal/preflight"
	"mediashelf/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var fromWorkDir bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one batch: group exports into media sets and publish them to the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !skipPreflight {
				if failed := preflight.Failed(preflight.RunAll(runCtx, cfg)); len(failed) > 0 {
					fmt.Fprintln(out, checksView(failed, colorize).render(colorize))
					return errors.New("preflight checks failed (see `mediashelf status`)")
				}
			}

			manager := workflow.NewManager(cfg, logger)
			summary, err := manager.Run(runCtx, runOptions(cfg.Paths.WorkDir, recursive, fromWorkDir))
			if err != nil {
				return err
			}

			writeViews(out, colorize, summaryView(summary, colorize))
			fmt.Fprintln(out, summaryLine(summary, colorize))
			if failed := summary.Failed(); failed > 0 {
				return fmt.Errorf("%d media set(s) failed; see log for details", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories of the input directory")
	cmd.Flags().BoolVar(&fromWorkDir, "from-work-dir", false, "Re-publish the set directories in the work area instead of reading the input directory")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Start without checking directories and external tools")
	return cmd
}

func summaryView(summary workflow.Summary, colorize bool) tableView {
	rows := make([][]string, 0, len(summary.Sets))
	for _, set := range summary.Sets {
		result := paint(colorize, text.FgGreen, "published")
		switch {
		case set.Err != nil:
			result = paint(colorize, text.FgRed, "failed at "+set.Stage)
		case set.Library.Video == organizer.OutcomeInUse:
			result = paint(colorize, text.FgYellow, "deferred (in use)")
		case !set.Published():
			result = "no media-server video"
		}
		target := "-"
		if set.Library.Dir != "" {
			target = set.Library.Target.String()
		}
		artwork := "-"
		if set.Artwork != nil {
			artwork = string(set.Artwork.Rule)
		}
		rows = append(rows, []string{set.Name, result, target, artwork, fmt.Sprintf("%d", set.Library.FilesWritten())})
	}
	return tableView{
		Title:   "Run " + summary.RunID,
		Headers: []string{"Set", "Result", "Library target", "Artwork", "Written"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	}
}

func summaryLine(summary workflow.Summary, colorize bool) string {
	if len(summary.Sets) == 0 {
		return "No media sets found in " + summary.Root
	}
	parts := []string{
		fmt.Sprintf("%d published", summary.Published()),
		fmt.Sprintf("%d deferred", summary.Deferred()),
		fmt.Sprintf("%d failed", summary.Failed()),
	}
	if n := summary.Untagged + summary.Rejected; n > 0 {
		parts = append(parts, fmt.Sprintf("%d video(s) without a usable title", n))
	}
	line := strings.Join(parts, ", ") + fmt.Sprintf(" in %s", summary.Elapsed.Round(time.Millisecond))
	if summary.Deferred()+summary.Failed() > 0 {
		// Sets already moved out of the input directory are only read back on request.
		line += "; re-run with --from-work-dir to retry"
	}
	if summary.Failed() > 0 {
		return paint(colorize, text.FgRed, line)
	}
	return line
}
