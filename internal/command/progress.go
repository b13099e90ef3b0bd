package command

import (
	"fmt"

	"FreshmanRoll/internal/progress"
	"FreshmanRoll/internal/route"
	"FreshmanRoll/internal/server"

	"github.com/spf13/cobra"
)

type progressOutput struct {
	Completed    []route.Ending `json:"completed"`
	Remaining    []route.Ending `json:"remaining"`
	MetaUnlocked bool           `json:"meta_unlocked"`
}

// NewProgressCmd creates the progress command.
func NewProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show which endings have been reached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			store, err := server.OpenStore(cfg)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer store.Close()

			rec, err := store.Load(cmd.Context())
			if err != nil {
				return writeCommandError(cmd, err)
			}
			tr := progress.NewTracker()
			if err := tr.Restore(rec); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}

			view := progressOutput{Completed: tr.Completed(), Remaining: tr.Remaining(), MetaUnlocked: tr.MetaUnlocked()}
			if jsonOutput(cmd) {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			primary := route.PrimaryEndings()
			fmt.Fprintf(out, "endings: %d/%d\n", len(primary)-len(view.Remaining), len(primary))
			for _, e := range primary {
				mark := " "
				if tr.Has(e) {
					mark = "x"
				}
				fmt.Fprintf(out, "  [%s] %s\n", mark, e.Label())
			}
			if view.MetaUnlocked {
				fmt.Fprintf(out, "%s: unlocked\n", route.EndingFinalBell.Label())
			} else {
				fmt.Fprintf(out, "%s: locked\n", route.EndingFinalBell.Label())
			}
			return nil
		},
	}
}
