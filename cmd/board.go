package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	vm "github.com/zjrosen/soundboard/internal/board"
	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/recorder"
	ui "github.com/zjrosen/soundboard/internal/ui/board"
	"github.com/zjrosen/soundboard/internal/ui/shared/clipboard"
	"github.com/zjrosen/soundboard/internal/watch"
)

func runBoard(cmd *cobra.Command, _ []string) error {
	a := openApp(cfg)
	defer func() { _ = a.Close() }()

	backend, closeBackend := a.backend()
	defer closeBackend()

	inbox := ui.NewInbox()
	defer inbox.Close()

	pads := vm.NewPads(backend, inbox.PlaybackListener(), cfg.Audio.DefaultVolume)
	defer pads.Close()

	rec := recorder.NewController(a.device(), a.blobs, recorder.WithMaxDuration(cfg.Recorder.MaxDuration))
	defer rec.Cancel()

	if cfg.AutoRefresh && a.db != nil {
		w, err := watch.New(a.db.Path(), cfg.AutoRefreshDebounce, func() {
			inbox.Post(ui.SoundsChangedMsg{Err: a.store.Reload()})
		})
		if err != nil {
			log.ErrorErr(log.CatWatch, "Auto-refresh disabled", err)
		} else {
			defer func() { _ = w.Close() }()
		}
	}

	m := ui.New(ui.Config{
		Store:         a.store,
		Pads:          pads,
		Inbox:         inbox,
		Recorder:      rec,
		Clipboard:     clipboard.System{},
		Columns:       cfg.UI.Columns,
		ShowDurations: cfg.UI.ShowDurations,
		StartupErr:    a.loadErr,
	})
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	_, err := p.Run()
	return err
}
