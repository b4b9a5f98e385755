package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	vm "github.com/zjrosen/soundboard/internal/board"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

var listCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sounds",
	Long:  `Print every sound on the board, optionally limited to one category. Built-in sounds are marked with *.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", vm.CategoryAll, "only list sounds in this category")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	a := openApp(cfg)
	defer func() { _ = a.Close() }()
	if a.loadErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", a.loadErr)
	}

	printSounds(cmd.OutOrStdout(), vm.Filter(a.store.Sounds(), listCategory), a.store.IsBuiltIn)
	return nil
}

func printSounds(w io.Writer, sounds []domain.Sound, builtin func(id string) bool) {
	if len(sounds) == 0 {
		fmt.Fprintln(w, "(no sounds)")
		return
	}

	idLen, nameLen, catLen := len("ID"), len("NAME"), len("CATEGORY")
	for _, s := range sounds {
		idLen = max(idLen, len(s.ID)+1)
		nameLen = max(nameLen, len(s.Name))
		catLen = max(catLen, len(s.Category))
	}

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", idLen, "ID", nameLen, "NAME", catLen, "CATEGORY", "SOURCE")
	for _, s := range sounds {
		id := s.ID
		if builtin(s.ID) {
			id += "*"
		}
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n", idLen, id, nameLen, s.Name, catLen, s.Category, s.Src)
	}
}
