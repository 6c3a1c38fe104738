package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediashelf/internal/classifier"
	"mediashelf/internal/grouper"
	"mediashelf/internal/workflow"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var showIgnored bool
	var fromWorkDir bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Preview classification and grouping without moving files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			manager := workflow.NewManager(cfg, logger)
			plan, planErr := manager.Preview(cmd.Context(), runOptions(cfg.Paths.WorkDir, recursive, fromWorkDir))

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			writeViews(out, colorize,
				entriesView(plan, showIgnored),
				setsView(plan),
				leftoversView(plan.Grouping),
			)
			return planErr
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories of the input directory")
	cmd.Flags().BoolVar(&showIgnored, "ignored", false, "Include ignored entries in the listing")
	cmd.Flags().BoolVar(&fromWorkDir, "from-work-dir", false, "Scan the set directories in the work area instead of the input directory")
	return cmd
}

func runOptions(workDir string, recursive, fromWorkDir bool) workflow.Options {
	if fromWorkDir {
		return workflow.Options{Root: workDir, Recursive: true}
	}
	return workflow.Options{Recursive: recursive}
}

func writeViews(out io.Writer, colorize bool, views ...tableView) {
	for _, v := range views {
		if len(v.Rows) == 0 {
			continue
		}
		fmt.Fprintln(out, v.render(colorize))
	}
}

func entriesView(plan workflow.Plan, showIgnored bool) tableView {
	var rows [][]string
	for _, e := range plan.Entries {
		if e.Class == classifier.ClassIgnored && !showIgnored {
			continue
		}
		rows = append(rows, []string{relativeTo(plan.Root, e.Path), string(e.Class), string(e.Reason)})
	}
	counts := classifier.Count(plan.Entries)
	return tableView{
		Title:   "Files",
		Headers: []string{"Path", "Class", "Reason"},
		Rows:    rows,
		Footer: fmt.Sprintf("%d video, %d image, %d master, %d ignored",
			counts[classifier.ClassVideo], counts[classifier.ClassImage], counts[classifier.ClassMaster], counts[classifier.ClassIgnored]),
	}
}

func setsView(plan workflow.Plan) tableView {
	var rows [][]string
	if plan.Sets != nil {
		for _, set := range plan.Sets {
			server := "-"
			if set.MediaServer != nil {
				server = set.MediaServer.Base()
			}
			rows = append(rows, []string{
				set.Name.String(),
				server,
				strconv.Itoa(len(set.Internet)),
				strconv.Itoa(len(set.Images)),
				yesNo(set.Master != nil),
				orDash(set.Album),
				strconv.Itoa(len(set.Unmatched())),
			})
		}
	} else {
		// Purpose organization failed; fall back to the raw groups.
		for _, g := range plan.Grouping.Groups {
			rows = append(rows, []string{
				g.Name.String(),
				"?",
				strconv.Itoa(len(g.Videos)) + " video(s)",
				strconv.Itoa(len(g.Images)),
				yesNo(g.Master != nil),
				orDash(g.Album()),
				"-",
			})
		}
	}
	return tableView{
		Title:   "Media sets",
		Headers: []string{"Set", "Media server", "Internet", "Images", "Master", "Album", "Unmatched"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignRight},
	}
}

func leftoversView(result grouper.Result) tableView {
	var rows [][]string
	for _, v := range result.Untagged {
		rows = append(rows, []string{v.Base(), "missing title tag"})
	}
	for _, r := range result.Rejected {
		for _, v := range r.Videos {
			rows = append(rows, []string{v.Base(), fmt.Sprintf("title %q: %s", r.Title, r.Reason)})
		}
	}
	for _, img := range result.Unassigned {
		rows = append(rows, []string{img.Base(), "image matches no set title"})
	}
	return tableView{
		Title:   "Left in place",
		Headers: []string{"File", "Reason"},
		Rows:    rows,
	}
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
