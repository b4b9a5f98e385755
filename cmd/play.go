package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zjrosen/soundboard/internal/playback"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
	"github.com/zjrosen/soundboard/internal/ui/styles"
)

var playVolume float64

var playCmd = &cobra.Command{
	Use:   "play ID|NAME",
	Short: "Play one sound to the end",
	Long:  `Play a sound and wait for it to finish. Press ctrl+c to stop early.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().Float64Var(&playVolume, "volume", -1, "volume from 0 to 1 (default audio.default_volume)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	a := openApp(cfg)
	defer func() { _ = a.Close() }()

	s, err := a.find(args[0])
	if err != nil {
		return err
	}

	backend, closeBackend := a.backend()
	defer closeBackend()

	volume := cfg.Audio.DefaultVolume
	if playVolume >= 0 {
		volume = playVolume
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return playToEnd(ctx, cmd.OutOrStdout(), s, backend, volume)
}

// playToEnd plays s once and returns when it ends, fails to load, or ctx
// is cancelled.
func playToEnd(ctx context.Context, w io.Writer, s domain.Sound, backend playback.Backend, volume float64) error {
	events := make(chan playback.Event, 8)
	c := playback.NewController(s, backend,
		playback.WithVolume(volume),
		playback.WithListener(func(ev playback.Event) {
			select {
			case events <- ev:
			default: // late events after we stopped reading
			}
		}),
	)
	defer func() { _ = c.Close() }()

	c.Toggle()
	started := false
	for {
		select {
		case <-ctx.Done():
			c.Stop()
			fmt.Fprintln(w, "Stopped")
			return nil
		case ev := <-events:
			switch {
			case ev.Err != nil:
				return ev.Err
			case ev.State == playback.Playing:
				started = true
				fmt.Fprintf(w, "Playing %q (%s)\n", s.Name, styles.FormatDuration(ev.Duration))
			case started:
				return nil
			}
		}
	}
}
