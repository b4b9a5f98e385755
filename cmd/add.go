package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/paths"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

var addCategory string

var addCmd = &cobra.Command{
	Use:   "add NAME SRC",
	Short: "Add a sound from a URL or file",
	Long: `Add a sound to the board. SRC is an http(s) URL or a path to a WAV or MP3 file.
Relative paths are stored as absolute paths.`,
	Example: `  soundboard add "air horn" https://example.com/horn.mp3
  soundboard add applause ./clips/applause.wav --category Reactions`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addCategory, "category", "c", domain.CategoryURL, "category for the sound")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a := openApp(cfg)
	defer func() { _ = a.Close() }()

	src, err := normalizeSource(args[1])
	if err != nil {
		return err
	}

	s, err := a.store.Add(domain.Candidate{Name: args[0], Src: src, Category: addCategory})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s) to %s\n", s.Name, s.ID, s.Category)
	return nil
}

// normalizeSource makes file paths absolute and checks they exist. URLs
// and blank input pass through for the store to validate.
func normalizeSource(src string) (string, error) {
	if src == "" || domain.KindOf(src) != domain.SourceFile {
		return src, nil
	}
	abs, err := filepath.Abs(paths.ExpandHome(src))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", src, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("sound file: %w", err)
	}
	log.Debug(log.CatStore, "Resolved file source", "src", src, "path", abs)
	return abs, nil
}
