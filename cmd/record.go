package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/paths"
	"github.com/zjrosen/soundboard/internal/recorder"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

var recordDuration time.Duration

var recordCmd = &cobra.Command{
	Use:   "record LABEL",
	Short: "Record a sound from the microphone",
	Long: `Record from the microphone and add the clip to the board under the Recorded
category. Recording stops after --duration, or on ctrl+c when no duration is
given. The clip is saved as a WAV file under the data directory.`,
	Example: `  soundboard record "my laugh" --duration 3s`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRecord,
}

func init() {
	recordCmd.Flags().DurationVar(&recordDuration, "duration", 0, "stop after this long (default: until ctrl+c)")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	a := openApp(cfg)
	defer func() { _ = a.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rec := recorder.NewController(a.device(), a.blobs, recorder.WithMaxDuration(cfg.Recorder.MaxDuration))
	s, err := recordClip(ctx, cmd.OutOrStdout(), a, rec, args[0], recordDuration, paths.RecordingsPath())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", s.Name, s.ID)
	return nil
}

// recordClip records until d elapses or ctx is cancelled, writes the WAV
// into dir and adds it to the store with the file as its source. Blob refs
// don't outlive the process, so the file is what keeps the clip playable.
func recordClip(ctx context.Context, w io.Writer, a *app, rec *recorder.Controller, label string, d time.Duration, dir string) (domain.Sound, error) {
	if err := rec.Start(label); err != nil {
		return domain.Sound{}, err
	}
	fmt.Fprintln(w, "Recording… press ctrl+c to stop")

	var timeout <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-ctx.Done():
	case <-timeout:
	}

	cand, err := rec.Stop()
	if err != nil {
		return domain.Sound{}, err
	}

	blob, err := a.blobs.Get(cand.Src)
	if err != nil {
		return domain.Sound{}, err
	}
	defer a.blobs.Release(cand.Src)

	if err := os.MkdirAll(dir, 0750); err != nil {
		return domain.Sound{}, fmt.Errorf("creating recordings directory: %w", err)
	}
	path := filepath.Join(dir, recordingFileName(cand.Name, time.Now()))
	if err := os.WriteFile(path, blob.Data, 0600); err != nil {
		return domain.Sound{}, fmt.Errorf("saving recording: %w", err)
	}
	log.Info(log.CatRecord, "Recording saved", "path", path, "bytes", len(blob.Data))

	cand.Src = path
	return a.store.Add(cand)
}

// recordingFileName builds "<slug>-<timestamp>.wav" from the label.
func recordingFileName(label string, at time.Time) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "recording"
	}
	return fmt.Sprintf("%s-%s.wav", slug, at.Format("20060102-150405"))
}
