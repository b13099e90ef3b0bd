package command

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"FreshmanRoll/internal/server"
	"FreshmanRoll/internal/timeline"

	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [FILE...]",
		Short: "Check timeline files for format errors",
		Long: `Parse timeline files and report the first violation in each.

Overlapping beats are reported as warnings. With no files, every source in
--timelines (or the bundled set) is checked. Exits non-zero if any file is
invalid. With --watch, files are re-checked as they change until Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var reports []timeline.Report
			if len(args) == 0 {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return writeCommandError(cmd, err)
				}
				reports, err = validateSources(timeline.NewLoader(server.TimelineFS(cfg)))
				if err != nil {
					return writeCommandError(cmd, err)
				}
			} else {
				for _, path := range args {
					reports = append(reports, timeline.ValidateFile(path))
				}
			}

			failed := 0
			for _, r := range reports {
				printReport(out, r)
				if !r.OK() {
					failed++
				}
			}

			watch, _ := cmd.Flags().GetBool("watch")
			if watch && len(args) > 0 {
				fmt.Fprintln(out, "watching for changes (Ctrl+C to stop)")
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				if err := timeline.Watch(ctx, args, 0, func(r timeline.Report) { printReport(out, r) }); err != nil {
					return writeCommandError(cmd, err)
				}
				return nil
			}

			if failed > 0 {
				return writeCommandError(cmd, fmt.Errorf("%d of %d timelines invalid", failed, len(reports)))
			}
			return nil
		},
	}

	cmd.Flags().Bool("watch", false, "re-validate files when they change")
	return cmd
}

func validateSources(loader *timeline.Loader) ([]timeline.Report, error) {
	sources, err := loader.Sources()
	if err != nil {
		return nil, err
	}
	reports := make([]timeline.Report, 0, len(sources))
	for _, src := range sources {
		doc, err := loader.LoadFromSource(src)
		r := timeline.Report{Path: src, Document: doc, Err: err}
		if err == nil {
			r.Warnings = timeline.Lint(doc)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func printReport(out io.Writer, r timeline.Report) {
	if !r.OK() {
		fmt.Fprintf(out, "FAIL %s: %v\n", r.Path, r.Err)
		return
	}
	fmt.Fprintf(out, "ok   %s: %q, %d beats, %.0fs\n", r.Path, r.Document.Title, r.Document.Len(), r.Document.TotalDuration().Seconds())
	for _, w := range r.Warnings {
		fmt.Fprintf(out, "WARN %s: %s\n", r.Path, w)
	}
}
