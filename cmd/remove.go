package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrBuiltin is returned when removing a built-in sound.
var ErrBuiltin = errors.New("built-in sounds can't be removed")

var removeCmd = &cobra.Command{
	Use:     "remove ID|NAME",
	Aliases: []string{"rm"},
	Short:   "Remove a sound you added",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	a := openApp(cfg)
	defer func() { _ = a.Close() }()

	s, err := a.find(args[0])
	if err != nil {
		return err
	}
	if a.store.IsBuiltIn(s.ID) {
		return fmt.Errorf("%w: %q", ErrBuiltin, s.Name)
	}

	if _, err := a.store.Remove(s.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", s.Name)
	return nil
}
