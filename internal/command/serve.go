package command

import (
	"os"
	"os/signal"
	"syscall"

	"FreshmanRoll/internal/server"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket host",
		Long: `Run the playback host.

Route triggers arrive over HTTP (POST /api/routes/{id}/start) or the
websocket at /ws, which also streams beat and ending events. Press Ctrl+C
to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := server.StartApp(ctx, cfg); err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().String("addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")
	cmd.Flags().Float64("tick-hz", 20, "playback tick rate")
	cmd.Flags().Bool("watch", false, "re-validate timeline files when they change")
	return cmd
}
