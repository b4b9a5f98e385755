// Package board is the interactive soundboard: category tabs, a volume bar
// and a grid of pads that play, record and delete sounds.
package board

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	vm "github.com/zjrosen/soundboard/internal/board"
	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/playback"
	"github.com/zjrosen/soundboard/internal/recorder"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
	"github.com/zjrosen/soundboard/internal/ui/shared/clipboard"
	"github.com/zjrosen/soundboard/internal/ui/shared/modal"
	"github.com/zjrosen/soundboard/internal/ui/shared/toast"
)

const (
	volumeStep         = 0.1
	flashDuration      = 200 * time.Millisecond
	recordTickInterval = 100 * time.Millisecond
)

var errNoRecorder = errors.New("no capture device configured")

// Store is the part of the sound store the board uses.
type Store interface {
	Sounds() []domain.Sound
	Add(c domain.Candidate) (domain.Sound, error)
	Remove(id string) (bool, error)
	IsBuiltIn(id string) bool
}

// Recorder records one clip at a time from the microphone.
type Recorder interface {
	Start(label string) error
	Stop() (domain.Candidate, error)
	Cancel()
	State() recorder.State
	Label() string
	Elapsed() time.Duration
	Truncated() bool
}

// PlaybackMsg wraps a playback controller event.
type PlaybackMsg struct {
	Event playback.Event
}

// SoundsChangedMsg reports that the store was reloaded from disk.
type SoundsChangedMsg struct {
	Err error
}

type flashEndMsg struct {
	id  string
	seq int
}

type recordTickMsg struct{}

type modalKind int

const (
	modalNone modalKind = iota
	modalAdd
	modalRecord
	modalDelete
)

// Config wires the board to its collaborators.
type Config struct {
	Store     Store
	Pads      *vm.Pads
	Inbox     *Inbox
	Recorder  Recorder            // nil disables recording
	Clipboard clipboard.Clipboard // nil disables copying sources

	Columns       int
	ShowDurations bool

	// StartupErr is shown once the program starts, e.g. a failed initial load.
	StartupErr error
}

// Model is the board state.
type Model struct {
	store Store
	pads  *vm.Pads
	inbox *Inbox
	rec   Recorder
	clip  clipboard.Clipboard

	columns       int
	showDurations bool
	initCmd       tea.Cmd

	sounds     []domain.Sound
	categories []string
	category   string
	visible    []domain.Sound
	cursor     int
	offset     int // first visible grid row

	durations map[string]time.Duration
	playing   map[string]bool
	flash     map[string]int
	flashSeq  int

	modal         modal.Model
	modalKind     modalKind
	pendingDelete domain.Sound

	showHelp bool
	help     string

	toast      toast.Model
	zones      *zone.Manager
	zonePrefix string

	width  int
	height int
}

// New creates the board and loads the current collection from the store.
func New(cfg Config) Model {
	columns := cfg.Columns
	if columns <= 0 {
		columns = 4
	}
	zones := zone.New()

	m := Model{
		store:         cfg.Store,
		pads:          cfg.Pads,
		inbox:         cfg.Inbox,
		rec:           cfg.Recorder,
		clip:          cfg.Clipboard,
		columns:       columns,
		showDurations: cfg.ShowDurations,
		category:      vm.CategoryAll,
		durations:     make(map[string]time.Duration),
		playing:       make(map[string]bool),
		flash:         make(map[string]int),
		toast:         toast.New(),
		zones:         zones,
		zonePrefix:    zones.NewPrefix(),
	}
	m.refresh()

	if cfg.StartupErr != nil {
		m.toast, m.initCmd = m.toast.ShowError(cfg.StartupErr)
	}
	return m
}

// Init starts listening for background events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.inbox.Wait(), m.initCmd)
}

// Close releases the mouse zone tracker.
func (m Model) Close() {
	m.zones.Close()
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.modal.SetSize(width, height)
	m.help = renderHelp(width)
	m.ensureVisible()
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case InboxMsg:
		cmds := make([]tea.Cmd, 0, len(msg.Msgs)+1)
		for _, inner := range msg.Msgs {
			var cmd tea.Cmd
			m, cmd = m.handleBackground(inner)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.inbox.Wait())
		return m, tea.Batch(cmds...)

	case PlaybackMsg, SoundsChangedMsg:
		return m.handleBackground(msg)

	case toast.DismissMsg:
		m.toast = m.toast.Update(msg)
		return m, nil

	case flashEndMsg:
		if m.flash[msg.id] == msg.seq {
			delete(m.flash, msg.id)
		}
		return m, nil

	case recordTickMsg:
		if m.recording() {
			return m, recordTick()
		}
		return m, nil

	case modal.SubmitMsg, modal.CancelMsg, modal.InvalidMsg:
		return m.handleModalResult(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.shutdown()
			return m, tea.Quit
		}
		if m.modalKind != modalNone {
			var cmd tea.Cmd
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			if key.Matches(msg, keys.Help, keys.Escape, keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.modalKind != modalNone {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleBackground(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case PlaybackMsg:
		ev := msg.Event
		if ev.Duration > 0 {
			m.durations[ev.SoundID] = ev.Duration
		}
		m.playing = m.pads.Playing()
		if ev.Err != nil {
			log.ErrorErr(log.CatUI, "Playback failed", ev.Err, "id", ev.SoundID)
			m.toast, cmd = m.toast.ShowError(ev.Err)
		}

	case SoundsChangedMsg:
		log.Debug(log.CatUI, "Sounds changed on disk", "err", msg.Err)
		m.refresh()
		if msg.Err != nil {
			m.toast, cmd = m.toast.ShowError(msg.Err)
		}
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.shutdown()
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Up):
		m.move(-m.cols(), false)
	case key.Matches(msg, keys.Down):
		m.move(m.cols(), false)
	case key.Matches(msg, keys.Left):
		m.move(-1, true)
	case key.Matches(msg, keys.Right):
		m.move(1, true)
	case key.Matches(msg, keys.Toggle):
		return m.toggleSelected()
	case key.Matches(msg, keys.NextTab):
		m.cycleCategory(1)
	case key.Matches(msg, keys.PrevTab):
		m.cycleCategory(-1)
	case key.Matches(msg, keys.VolUp):
		m.setVolume(m.pads.Volume() + volumeStep)
	case key.Matches(msg, keys.VolDown):
		m.setVolume(m.pads.Volume() - volumeStep)
	case key.Matches(msg, keys.Add):
		return m.openAdd()
	case key.Matches(msg, keys.Record):
		return m.record()
	case key.Matches(msg, keys.Delete):
		return m.confirmDelete()
	case key.Matches(msg, keys.StopAll):
		m.pads.StopAll()
		m.playing = m.pads.Playing()
	case key.Matches(msg, keys.Copy):
		return m.copySource()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modalKind != modalNone || m.showHelp {
		return m, nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for _, cat := range m.categories {
		if m.inZone("tab:"+cat, msg) {
			m.selectCategory(cat)
			return m, nil
		}
	}
	for i, s := range m.visible {
		if m.inZone("pad:"+s.ID, msg) {
			m.cursor = i
			return m.toggleSelected()
		}
	}
	return m, nil
}

func (m Model) inZone(id string, msg tea.MouseMsg) bool {
	z := m.zones.Get(m.zonePrefix + id)
	return z != nil && z.InBounds(msg)
}

// shutdown stops everything audible before the program exits.
func (m Model) shutdown() {
	if m.recording() {
		m.rec.Cancel()
	}
	m.pads.StopAll()
	m.inbox.Close()
}

func (m Model) recording() bool {
	return m.rec != nil && m.rec.State() == recorder.Recording
}

func (m Model) selected() (domain.Sound, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return domain.Sound{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) move(delta int, clamp bool) {
	if len(m.visible) == 0 {
		return
	}
	next := m.cursor + delta
	if clamp {
		next = max(0, min(next, len(m.visible)-1))
	}
	if next >= 0 && next < len(m.visible) {
		m.cursor = next
	}
	m.ensureVisible()
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	s, ok := m.selected()
	if !ok {
		return m, nil
	}
	log.Debug(log.CatUI, "Pad pressed", "id", s.ID, "name", s.Name)
	m.pads.Controller(s).Toggle()
	m.playing = m.pads.Playing()

	m.flashSeq++
	seq := m.flashSeq
	m.flash[s.ID] = seq
	return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashEndMsg{id: s.ID, seq: seq}
	})
}

func (m *Model) setVolume(v float64) {
	applied := m.pads.BroadcastVolume(math.Round(v*10) / 10)
	log.Debug(log.CatUI, "Volume changed", "volume", applied)
}

func (m *Model) cycleCategory(delta int) {
	if len(m.categories) == 0 {
		return
	}
	idx := max(slices.Index(m.categories, m.category), 0)
	n := len(m.categories)
	m.selectCategory(m.categories[((idx+delta)%n+n)%n])
}

func (m *Model) selectCategory(cat string) {
	if cat == m.category {
		return
	}
	m.category = cat
	m.cursor = 0
	m.offset = 0
	m.applyFilter()
}

// refresh re-reads the collection. A category that no longer has sounds
// falls back to all.
func (m *Model) refresh() {
	m.sounds = m.store.Sounds()
	m.categories = vm.Categories(m.sounds)
	if !slices.Contains(m.categories, m.category) {
		m.category = vm.CategoryAll
		m.cursor = 0
	}
	m.applyFilter()
}

func (m *Model) applyFilter() {
	m.visible = vm.Filter(m.sounds, m.category)
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
	m.pads.Sync(m.visible)
	m.playing = m.pads.Playing()
	m.ensureVisible()
}

func (m *Model) selectID(id string) {
	for i, s := range m.visible {
		if s.ID == id {
			m.cursor = i
			m.ensureVisible()
			return
		}
	}
}

func (m Model) openAdd() (tea.Model, tea.Cmd) {
	m.modal = modal.New(modal.Config{
		Title:     "Add Sound",
		SaveLabel: "Add",
		Inputs: []modal.InputConfig{
			{Key: "name", Label: "Name", Placeholder: "Air horn", MaxLength: 64},
			{Key: "src", Label: "URL", Placeholder: "https://example.com/horn.mp3 or a file path"},
			{Key: "category", Label: "Category", Value: domain.CategoryURL, MaxLength: 32, Optional: true},
		},
	})
	m.modal.SetSize(m.width, m.height)
	m.modalKind = modalAdd
	return m, m.modal.Init()
}

func (m Model) record() (tea.Model, tea.Cmd) {
	if m.rec == nil {
		var cmd tea.Cmd
		m.toast, cmd = m.toast.ShowError(&domain.DeviceUnavailableError{Err: errNoRecorder})
		return m, cmd
	}
	if m.recording() {
		return m.stopRecording()
	}

	m.modal = modal.New(modal.Config{
		Title:     "Record",
		SaveLabel: "Record",
		Inputs: []modal.InputConfig{
			{Key: "name", Label: "Name", Placeholder: "My recording", MaxLength: 64},
		},
	})
	m.modal.SetSize(m.width, m.height)
	m.modalKind = modalRecord
	return m, m.modal.Init()
}

func (m Model) startRecording(name string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if err := m.rec.Start(name); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			m.toast, cmd = m.toast.Show("Please enter a name for your recording", toast.KindError)
			return m, cmd
		}
		m.toast, cmd = m.toast.ShowError(err)
		return m, cmd
	}
	m.toast, cmd = m.toast.Show("Recording… press r to stop", toast.KindInfo)
	return m, tea.Batch(cmd, recordTick())
}

func (m Model) stopRecording() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	truncated := m.rec.Truncated()
	cand, err := m.rec.Stop()
	if err != nil {
		m.toast, cmd = m.toast.ShowError(err)
		return m, cmd
	}

	s, err := m.store.Add(cand)
	m.refresh()
	m.selectID(s.ID)
	if err != nil {
		m.toast, cmd = m.toast.ShowError(err)
		return m, cmd
	}

	text := fmt.Sprintf("Saved %q", s.Name)
	if truncated {
		text += " (trimmed to the maximum length)"
	}
	m.toast, cmd = m.toast.Show(text, toast.KindSuccess)
	return m, cmd
}

func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	s, ok := m.selected()
	if !ok {
		return m, nil
	}
	if m.store.IsBuiltIn(s.ID) {
		var cmd tea.Cmd
		m.toast, cmd = m.toast.Show("Built-in sounds can't be deleted", toast.KindInfo)
		return m, cmd
	}

	m.modal = modal.New(modal.Config{
		Title:     "Delete Sound",
		Message:   fmt.Sprintf("Delete %q? This cannot be undone.", s.Name),
		SaveLabel: "Delete",
	})
	m.modal.SetSize(m.width, m.height)
	m.modalKind = modalDelete
	m.pendingDelete = s
	return m, nil
}

func (m Model) handleModalResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	kind := m.modalKind
	if kind == modalNone {
		return m, nil
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modal.InvalidMsg:
		text := "Please fill in all fields"
		if kind == modalRecord {
			text = "Please enter a name for your recording"
		}
		m.toast, cmd = m.toast.Show(text, toast.KindError)
		return m, cmd

	case modal.CancelMsg:
		m.modalKind = modalNone
		m.pendingDelete = domain.Sound{}
		return m, nil

	case modal.SubmitMsg:
		m.modalKind = modalNone
		switch kind {
		case modalAdd:
			return m.addSound(msg.Values)
		case modalRecord:
			return m.startRecording(msg.Values["name"])
		case modalDelete:
			return m.deleteSound()
		}
	}
	return m, nil
}

func (m Model) addSound(values map[string]string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	s, err := m.store.Add(domain.Candidate{
		Name:     values["name"],
		Src:      values["src"],
		Category: values["category"],
	})
	if errors.Is(err, domain.ErrValidation) {
		m.toast, cmd = m.toast.ShowError(err)
		return m, cmd
	}

	m.refresh()
	m.selectID(s.ID)
	if err != nil {
		m.toast, cmd = m.toast.ShowError(err)
		return m, cmd
	}
	m.toast, cmd = m.toast.Show(fmt.Sprintf("Added %q", s.Name), toast.KindSuccess)
	return m, cmd
}

func (m Model) deleteSound() (tea.Model, tea.Cmd) {
	s := m.pendingDelete
	m.pendingDelete = domain.Sound{}
	if s.ID == "" {
		return m, nil
	}

	m.pads.Release(s.ID)
	removed, err := m.store.Remove(s.ID)
	delete(m.durations, s.ID)
	m.refresh()

	var cmd tea.Cmd
	switch {
	case err != nil:
		m.toast, cmd = m.toast.ShowError(err)
	case removed:
		m.toast, cmd = m.toast.Show(fmt.Sprintf("Deleted %q", s.Name), toast.KindSuccess)
	}
	return m, cmd
}

func (m Model) copySource() (tea.Model, tea.Cmd) {
	s, ok := m.selected()
	if !ok || m.clip == nil {
		return m, nil
	}
	var cmd tea.Cmd
	if err := m.clip.Copy(s.Src); err != nil {
		log.ErrorErr(log.CatUI, "Copy failed", err, "id", s.ID)
		m.toast, cmd = m.toast.Show("Could not copy to clipboard", toast.KindError)
		return m, cmd
	}
	m.toast, cmd = m.toast.Show("Copied source of "+s.Name, toast.KindSuccess)
	return m, cmd
}

func recordTick() tea.Cmd {
	return tea.Tick(recordTickInterval, func(time.Time) tea.Msg { return recordTickMsg{} })
}
