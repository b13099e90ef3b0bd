package command

import (
	"fmt"
	"text/tabwriter"

	"FreshmanRoll/internal/route"

	"github.com/spf13/cobra"
)

// NewRoutesCmd creates the routes command.
func NewRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List routes and the ending each one registers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			routes := route.DefaultRegistry().Routes()
			if jsonOutput(cmd) {
				return writeJSON(cmd, routes)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tENDING")
			for _, rt := range routes {
				fmt.Fprintf(w, "%d\t%s\t%s (%s)\n", rt.ID, rt.Source, rt.Ending.Label(), rt.Ending)
			}
			return w.Flush()
		},
	}
}
