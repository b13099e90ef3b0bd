package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"FreshmanRoll/internal/director"
	"FreshmanRoll/internal/progress"
	"FreshmanRoll/internal/route"
	"FreshmanRoll/internal/server"
	"FreshmanRoll/internal/timeline"

	"github.com/spf13/cobra"
)

// NewPlayCmd creates the play command.
func NewPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play ROUTE",
		Short: "Play one route in the terminal",
		Long: `Play a route's timeline headlessly, printing each beat as it starts.

The ending is registered against the progress record when the route
finishes; pass --db to keep it. --speed scales elapsed time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return writeCommandError(cmd, fmt.Errorf("invalid route id %q", args[0]))
			}
			speed, _ := cmd.Flags().GetFloat64("speed")
			if speed <= 0 {
				return writeCommandError(cmd, fmt.Errorf("--speed must be positive"))
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			store, err := server.OpenStore(cfg)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d := director.New(route.DefaultRegistry(), timeline.NewLoader(server.TimelineFS(cfg)), progress.NewTracker(), store)
			if err := d.LoadProgress(ctx); err != nil {
				return writeCommandError(cmd, err)
			}
			if _, ok := d.Route(id); !ok {
				return writeCommandError(cmd, fmt.Errorf("unknown route %d", id))
			}
			if err := playRoute(ctx, cmd.OutOrStdout(), d, id, cfg.TickHz, speed, jsonOutput(cmd)); err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().Float64("speed", 1, "playback speed multiplier")
	return cmd
}

func playRoute(ctx context.Context, out io.Writer, d *director.Director, id int, tickHz, speed float64, asJSON bool) error {
	d.Enqueue(director.StartRoute{RouteID: id})
	events := d.Tick(ctx, 0)
	if len(events) == 0 {
		return fmt.Errorf("route %d did not start", id)
	}
	if err := printEvents(out, events, asJSON); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(float64(time.Second) / tickHz))
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			d.Enqueue(director.Abort{})
			return printEvents(out, d.Tick(context.Background(), 0), asJSON)
		case now := <-ticker.C:
			elapsed := time.Duration(float64(now.Sub(last)) * speed)
			last = now
			events := d.Tick(ctx, elapsed)
			if err := printEvents(out, events, asJSON); err != nil {
				return err
			}
			for _, ev := range events {
				if ev.Type == director.EventSessionClosed {
					return nil
				}
			}
		}
	}
}

func printEvents(out io.Writer, events []director.Event, asJSON bool) error {
	for _, ev := range events {
		if asJSON {
			raw, err := json.Marshal(ev)
			if err != nil {
				return fmt.Errorf("encode event: %w", err)
			}
			fmt.Fprintln(out, string(raw))
			continue
		}
		switch p := ev.Payload.(type) {
		case director.BeatPayload:
			if p.Position == 1 {
				fmt.Fprintf(out, "===== %s =====\n", p.Title)
			}
			fmt.Fprintf(out, "beat %02d/%02d [%s] %s | light: %s", p.Position, p.Total, p.Time, p.Camera, p.Lighting)
			if p.Notes != "" {
				fmt.Fprintf(out, " | notes: %s", p.Notes)
			}
			fmt.Fprintln(out)
		case director.EndingPayload:
			fmt.Fprintf(out, "ending reached: %s (%s)\n", p.Label, p.Ending)
		case director.MetaUnlockedPayload:
			fmt.Fprintf(out, "meta ending unlocked: %s\n", p.Label)
		case director.SessionClosedPayload:
			fmt.Fprintf(out, "session %s\n", p.Reason)
		}
	}
	return nil
}
