package command

import (
	"encoding/json"
	"fmt"

	"FreshmanRoll/internal/server"

	"github.com/spf13/cobra"
)

// loadConfig layers the config file, environment and any flags the user set.
func loadConfig(cmd *cobra.Command) (server.AppConfig, error) {
	path, _ := cmd.Flags().GetString("config")

	var o server.ConfigOverrides
	flags := cmd.Flags()
	if flags.Changed("addr") {
		v, _ := flags.GetString("addr")
		o.Addr = &v
	}
	if flags.Changed("timelines") {
		v, _ := flags.GetString("timelines")
		o.TimelineDir = &v
	}
	if flags.Changed("db") {
		v, _ := flags.GetString("db")
		o.ProgressDB = &v
	}
	if flags.Changed("tick-hz") {
		v, _ := flags.GetFloat64("tick-hz")
		o.TickHz = &v
	}
	if flags.Changed("watch") {
		v, _ := flags.GetBool("watch")
		o.WatchTimelines = &v
	}
	return server.LoadAppConfig(path, o)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
