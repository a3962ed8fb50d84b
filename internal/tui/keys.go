package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Select     key.Binding
	PickImage  key.Binding
	PickPRD    key.Binding
	DropImage  key.Binding
	DropPRD    key.Binding
	Params     key.Binding
	Submit     key.Binding
	Cancel     key.Binding
	Close      key.Binding
	NextField  key.Binding
	Save       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	PickerMove key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "navigate")),
		Down:       key.NewBinding(key.WithKeys("j", "down")),
		Left:       key.NewBinding(key.WithKeys("h", "left")),
		Right:      key.NewBinding(key.WithKeys("l", "right")),
		Select:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose mode")),
		PickImage:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "image")),
		PickPRD:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prd")),
		DropImage:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove image")),
		DropPRD:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "remove prd")),
		Params:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch params")),
		Submit:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "analyze")),
		Cancel:     key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "cancel request")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		NextField:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Save:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
		PickerMove: key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "browse")),
	}
}

// footer returns the bindings worth showing for the current focus and phase.
func (a *App) footer() []key.Binding {
	k := a.keys
	switch a.focus {
	case focusPicker:
		return []key.Binding{k.PickerMove, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick")), k.Close}
	case focusParams:
		return []key.Binding{k.NextField, k.Save, k.Close}
	case focusModes:
	}

	if a.inFlight() {
		return []key.Binding{k.Cancel, k.Quit}
	}
	out := []key.Binding{k.Up, k.Select, k.PickImage}
	st := a.machine.State()
	if st.Mode.AcceptsDocument() {
		out = append(out, k.PickPRD)
	}
	if st.Primary != nil {
		out = append(out, k.DropImage)
	}
	if st.Secondary != nil {
		out = append(out, k.DropPRD)
	}
	if st.Mode.ID == fetchAdsID {
		out = append(out, k.Params)
	}
	if st.CanSubmit() {
		out = append(out, k.Submit)
	}
	return append(out, k.Quit)
}
