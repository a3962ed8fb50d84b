package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/adlens/internal/analysis"
	"github.com/jask/adlens/internal/session"
)

const (
	fetchAdsID  = "fetch-ads"
	gridColumns = 2
)

type focus int

const (
	focusModes focus = iota
	focusPicker
	focusParams
)

type fileLoadedMsg struct {
	slot    session.Slot
	file    *analysis.SelectedFile
	preview analysis.Preview
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// Options wires the App to its collaborators.
type Options struct {
	Machine  *session.Machine
	Logger   *zap.Logger
	StartDir string
}

// App is the interactive front end over one session.Machine.
type App struct {
	machine  *session.Machine
	log      *zap.Logger
	keys     keyMap
	modes    []analysis.Mode
	cursor   int
	focus    focus
	startDir string

	picker     filepicker.Model
	pickerSlot session.Slot
	previews   map[session.Slot]analysis.Preview
	params     paramsForm

	spinner  spinner.Model
	progress progress.Model

	status        string
	width, height int
}

func New(opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	dir := opts.StartDir
	if dir == "" {
		dir = "."
	}
	return &App{
		machine:  opts.Machine,
		log:      log.Named("tui"),
		keys:     newKeyMap(),
		modes:    analysis.Modes(),
		startDir: dir,
		previews: make(map[session.Slot]analysis.Preview),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) inFlight() bool { return a.machine.State().Phase == session.InFlight }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.progress.Width = clamp(msg.Width-16, 10, 60)
		if a.focus == focusPicker {
			return a.updatePicker(msg)
		}
		return a, nil
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		switch a.focus {
		case focusPicker:
			return a.updatePicker(msg)
		case focusParams:
			return a.updateParams(msg)
		case focusModes:
		}
		return a.handleKey(msg)
	case fileLoadedMsg:
		a.applyFile(msg)
		return a, nil
	case session.OutcomeMsg, session.ProgressMsg:
		cmd := a.machine.Update(msg)
		a.syncStatus()
		return a, cmd
	case spinner.TickMsg:
		if !a.inFlight() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case errMsg:
		a.status = msg.Error()
		a.log.Warn("ui error", zap.Error(msg.err))
		return a, nil
	}
	if a.focus == focusPicker {
		return a.updatePicker(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := a.keys
	if a.inFlight() {
		switch {
		case key.Matches(msg, k.Cancel):
			if a.machine.Cancel() {
				a.status = "Request cancelled"
			}
		case key.Matches(msg, k.Quit):
			a.machine.Cancel()
			return a, tea.Quit
		}
		return a, nil
	}

	st := a.machine.State()
	switch {
	case key.Matches(msg, k.Quit):
		return a, tea.Quit
	case key.Matches(msg, k.Up):
		if a.cursor-gridColumns >= 0 {
			a.cursor -= gridColumns
		}
	case key.Matches(msg, k.Down):
		if a.cursor+gridColumns < len(a.modes) {
			a.cursor += gridColumns
		}
	case key.Matches(msg, k.Left):
		if a.cursor%gridColumns > 0 {
			a.cursor--
		}
	case key.Matches(msg, k.Right):
		if a.cursor%gridColumns < gridColumns-1 && a.cursor+1 < len(a.modes) {
			a.cursor++
		}
	case key.Matches(msg, k.Select):
		mode := a.modes[a.cursor]
		a.machine.SelectMode(mode)
		a.status = "Mode: " + mode.Name
	case key.Matches(msg, k.PickImage):
		return a, a.openPicker(session.SlotPrimary)
	case key.Matches(msg, k.PickPRD):
		switch {
		case st.Mode.IsZero():
			a.status = "Choose a mode first"
			return a, nil
		case !st.Mode.AcceptsDocument():
			a.status = "This mode does not take a PRD"
			return a, nil
		}
		return a, a.openPicker(session.SlotSecondary)
	case key.Matches(msg, k.DropImage):
		a.removeFile(session.SlotPrimary)
	case key.Matches(msg, k.DropPRD):
		a.removeFile(session.SlotSecondary)
	case key.Matches(msg, k.Params):
		if st.Mode.ID != fetchAdsID {
			return a, nil
		}
		a.params = newParamsForm(a.machine.Params())
		a.focus = focusParams
		return a, a.params.focusCmd()
	case key.Matches(msg, k.Submit):
		return a, a.submit()
	}
	return a, nil
}

func (a *App) submit() tea.Cmd {
	st := a.machine.State()
	switch {
	case st.Mode.IsZero():
		a.status = "Choose a mode first"
		return nil
	case st.Primary == nil:
		a.status = "Pick an image first"
		return nil
	}
	cmd := a.machine.Submit()
	if cmd == nil {
		a.syncStatus()
		return nil
	}
	a.status = "Analyzing with " + st.Mode.Name
	a.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *App) syncStatus() {
	st := a.machine.State()
	switch st.Phase {
	case session.Succeeded:
		a.status = "Analysis complete"
	case session.Failed:
		if st.LastError != nil {
			a.status = st.LastError.Message
		}
	case session.Idle, session.Validating, session.InFlight:
	}
}

func (a *App) removeFile(slot session.Slot) {
	if a.machine.State().File(slot) == nil {
		return
	}
	a.machine.RemoveFile(slot)
	delete(a.previews, slot)
	a.status = "Removed " + slot.String()
}

func (a *App) openPicker(slot session.Slot) tea.Cmd {
	fp := filepicker.New()
	fp.CurrentDirectory = a.startDir
	fp.ShowPermissions = false
	switch slot {
	case session.SlotPrimary:
		fp.AllowedTypes = analysis.ImageExtensions
	case session.SlotSecondary:
		fp.AllowedTypes = analysis.DocumentExtensions
	}
	a.picker = fp
	a.pickerSlot = slot
	a.focus = focusPicker

	var sizeCmd tea.Cmd
	if a.height > 0 {
		a.picker, sizeCmd = a.picker.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height - 6})
	}
	return tea.Batch(a.picker.Init(), sizeCmd)
}

func (a *App) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, a.keys.Close) {
		a.focus = focusModes
		return a, nil
	}
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	if ok, path := a.picker.DidSelectFile(msg); ok {
		a.focus = focusModes
		return a, tea.Batch(cmd, loadFileCmd(a.pickerSlot, path))
	}
	if ok, path := a.picker.DidSelectDisabledFile(msg); ok {
		a.status = filepath.Base(path) + " is not an accepted file type"
	}
	return a, cmd
}

func loadFileCmd(slot session.Slot, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := analysis.FileFromPath(path)
		if err != nil {
			return errMsg{err}
		}
		return fileLoadedMsg{slot: slot, file: f, preview: analysis.Describe(f)}
	}
}

func (a *App) applyFile(msg fileLoadedMsg) {
	v := a.machine.SelectFile(msg.slot, msg.file)
	if !v.Accepted() {
		a.status = fmt.Sprintf("%s: %s", msg.file.Name, v.Reason)
		return
	}
	a.previews[msg.slot] = msg.preview
	a.status = "Selected " + msg.file.Name
}

func (a *App) updateParams(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Close):
		a.focus = focusModes
		return a, nil
	case key.Matches(msg, a.keys.NextField):
		return a, a.params.cycle(msg.String() == "shift+tab")
	case key.Matches(msg, a.keys.Save):
		p, err := a.params.values()
		if err != nil {
			a.params.err = err.Error()
			return a, nil
		}
		a.machine.SetParams(p)
		a.focus = focusModes
		a.status = "Fetch parameters saved"
		return a, nil
	}
	return a, a.params.update(msg)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
