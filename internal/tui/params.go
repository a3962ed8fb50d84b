package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/adlens/internal/analysis"
)

var paramLabels = []string{"Keyword", "Platform", "Limit"}

// paramsForm edits the fetch-ads parameters.
type paramsForm struct {
	inputs []textinput.Model
	active int
	err    string
}

func newParamsForm(p analysis.FetchParams) paramsForm {
	values := []string{p.Keyword, p.Platform, ""}
	if p.Limit > 0 {
		values[2] = strconv.Itoa(p.Limit)
	}
	placeholders := []string{"running shoes", "meta", "10"}

	f := paramsForm{inputs: make([]textinput.Model, len(paramLabels))}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 64
		in.Width = 32
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[2].CharLimit = 4
	return f
}

func (f *paramsForm) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.active].Focus()
}

func (f *paramsForm) cycle(back bool) tea.Cmd {
	n := len(f.inputs)
	if back {
		f.active = (f.active + n - 1) % n
	} else {
		f.active = (f.active + 1) % n
	}
	return f.focusCmd()
}

func (f *paramsForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.active], cmd = f.inputs[f.active].Update(msg)
	f.err = ""
	return cmd
}

func (f paramsForm) values() (analysis.FetchParams, error) {
	p := analysis.FetchParams{
		Keyword:  strings.TrimSpace(f.inputs[0].Value()),
		Platform: strings.TrimSpace(f.inputs[1].Value()),
	}
	if raw := strings.TrimSpace(f.inputs[2].Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return analysis.FetchParams{}, errors.New("limit must be a positive number")
		}
		p.Limit = n
	}
	return p, nil
}

func (f paramsForm) view() string {
	lines := []string{titleStyle.Render("Fetch parameters"), ""}
	for i, in := range f.inputs {
		prefix := "  "
		if i == f.active {
			prefix = cursorStyle.Render("> ")
		}
		lines = append(lines, prefix+labelStyle.Render(fmt.Sprintf("%-9s", paramLabels[i]))+in.View())
	}
	if f.err != "" {
		lines = append(lines, "", failTextStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}
