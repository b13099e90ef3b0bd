package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "freshman-roll"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Freshman Roll - branching narrative playback host",
		Long:          "Freshman Roll plays narrative route timelines and tracks which endings have been reached.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("config", "", "path to JSON config file")
	cmd.PersistentFlags().String("timelines", "", "directory of timeline YAML files (default: bundled)")
	cmd.PersistentFlags().String("db", "", "path to SQLite progress database (default: in memory)")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")

	cmd.AddCommand(
		NewServeCmd(),
		NewValidateCmd(),
		NewPlayCmd(),
		NewRoutesCmd(),
		NewProgressCmd(),
	)

	return cmd
}

func Execute() error {
	return NewRootCmd(Version).Execute()
}
