package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"threatmatrix/internal/logging"
	"threatmatrix/internal/rng"
	"threatmatrix/internal/sim"
)

func newHeadlessCmd(opts *rootOptions) *cobra.Command {
	var (
		frames   int
		every    int
		formats  []string
		script   string
		realtime bool
	)
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulation without a terminal UI",
		Long:  "headless steps the dashboard for a number of frames and prints snapshots as JSON or text. Input can be scripted with --script.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames <= 0 {
				return fmt.Errorf("--frames must be positive, got %d", frames)
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			renderer, err := newRenderers(formats, cmd.OutOrStdout(), every)
			if err != nil {
				return err
			}
			sc, err := loadScript(script)
			if err != nil {
				return err
			}
			log, closeLog, err := opts.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			ctx = logging.NewContext(ctx, log)

			simulator := sim.NewSimulator(cfg, scriptSource(sc), renderer, rng.New(opts.seed), nil)
			if realtime {
				simulator.StopAfter(uint64(frames))
				simulator.Run(ctx)
			} else {
				simulator.RunFrames(ctx, frames)
			}
			log.Debug("headless run finished", "frames", simulator.Frame())
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&frames, "frames", 600, "Number of frames to simulate")
	f.IntVar(&every, "every", 60, "Print every n-th frame")
	f.StringSliceVar(&formats, "format", []string{"json"}, "Output formats: json, text (comma separated)")
	f.StringVar(&script, "script", "", "YAML input script (file path or built-in name: demo, drill)")
	f.BoolVar(&realtime, "realtime", false, "Pace frames at the configured fps instead of stepping back to back")
	return cmd
}
