package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/adlens/internal/analysis"
	"github.com/jask/adlens/internal/session"
)

const defaultWidth = 80

func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = defaultWidth
	}
	st := a.machine.State()

	var body string
	switch a.focus {
	case focusPicker:
		body = a.renderPicker(width)
	case focusParams:
		body = modalStyle.Width(width - 4).Render(a.params.view())
	case focusModes:
		sections := []string{
			a.renderModes(st, width),
			a.renderFiles(st, width),
		}
		if out := a.renderOutcome(st, width); out != "" {
			sections = append(sections, out)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(st, width),
		body,
		a.renderStatus(width),
		a.renderFooter(a.footer(), width),
	)
}

// ---------------------------------------------------------------------------
// Chrome
// ---------------------------------------------------------------------------

func renderHeader(st session.State, width int) string {
	content := headerAppStyle.Render("adlens")
	if !st.Mode.IsZero() {
		content += headerModeStyle.Render("  " + st.Mode.Name)
	}
	return headerBarStyle.Width(width).Render(content)
}

func (a *App) renderStatus(width int) string {
	flat := strings.ReplaceAll(a.status, "\n", " ")
	return statusBarStyle.Width(width).Render(flat)
}

func (a *App) renderFooter(bindings []key.Binding, width int) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	return footerStyle.Width(width).Render(strings.Join(parts, sep))
}

// ---------------------------------------------------------------------------
// Mode grid
// ---------------------------------------------------------------------------

func (a *App) renderModes(st session.State, width int) string {
	cardWidth := (width - 2) / gridColumns
	if cardWidth < 20 {
		cardWidth = 20
	}
	inner := cardWidth - 4

	var rows []string
	for start := 0; start < len(a.modes); start += gridColumns {
		var cells []string
		for i := start; i < start+gridColumns && i < len(a.modes); i++ {
			m := a.modes[i]
			name := m.Name
			if m.ID == st.Mode.ID {
				name = "● " + name
			}
			content := modeNameStyle.Render(truncate(name, inner)) + "\n" + modeDescStyle.Render(truncate(m.Description, inner))
			style := modeCardStyle
			switch {
			case i == a.cursor:
				style = modeCardCursorStyle
			case m.ID == st.Mode.ID:
				style = modeCardActiveStyle
			}
			cells = append(cells, style.Width(cardWidth-2).Render(content))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

func (a *App) renderFiles(st session.State, width int) string {
	lines := []string{titleStyle.Render("Files")}
	lines = append(lines, a.fileLine("Image", session.SlotPrimary, st.Primary))
	if st.Mode.IsZero() || st.Mode.AcceptsDocument() {
		lines = append(lines, a.fileLine("PRD", session.SlotSecondary, st.Secondary))
	}
	if st.Mode.ID == fetchAdsID {
		p := a.machine.Params()
		summary := mutedStyle.Render("none set")
		if p != (analysis.FetchParams{}) {
			summary = valueStyle.Render(fmt.Sprintf("keyword=%q platform=%q limit=%d", p.Keyword, p.Platform, p.Limit))
		}
		lines = append(lines, labelStyle.Render(fmt.Sprintf("%-7s", "Params"))+summary)
	}
	return boxStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (a *App) fileLine(label string, slot session.Slot, f *analysis.SelectedFile) string {
	prefix := labelStyle.Render(fmt.Sprintf("%-7s", label))
	if f == nil {
		return prefix + mutedStyle.Render("not selected")
	}
	p, ok := a.previews[slot]
	if !ok {
		p = analysis.Preview{Name: f.Name, Size: f.SizeMB()}
	}
	return prefix + valueStyle.Render(p.String())
}

func (a *App) renderPicker(width int) string {
	title := "Pick an image (jpeg, jpg, png)"
	if a.pickerSlot == session.SlotSecondary {
		title = "Pick a PRD (pdf)"
	}
	content := titleStyle.Render(title) + "\n" + mutedStyle.Render(a.picker.CurrentDirectory) + "\n\n" + a.picker.View()
	return modalStyle.Width(width - 4).Render(content)
}

// ---------------------------------------------------------------------------
// Progress, errors, results
// ---------------------------------------------------------------------------

func (a *App) renderOutcome(st session.State, width int) string {
	switch st.Phase {
	case session.InFlight:
		return a.renderProgress(st, width)
	case session.Failed:
		if st.LastError != nil {
			return renderError(st.LastError, width)
		}
	case session.Succeeded:
		if st.LastResult != nil {
			return renderResult(analysis.Present(*st.LastResult), width)
		}
	case session.Idle, session.Validating:
	}
	return ""
}

func (a *App) renderProgress(st session.State, width int) string {
	lines := []string{
		a.spinner.View() + " " + stageStyle.Render(session.StageText(st.Step)),
		a.progress.ViewAs(session.StepFraction(st.Step)),
		mutedStyle.Render(session.StepLabel(st.Step)),
	}
	return boxStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func errorTitle(c analysis.Category) string {
	switch c {
	case analysis.CategoryValidation:
		return "Invalid file"
	case analysis.CategoryNetwork:
		return "Network error"
	case analysis.CategoryServerRejected:
		return "Request rejected"
	case analysis.CategoryServerError:
		return "Unexpected response"
	case analysis.CategoryUnknown:
		return "Error"
	}
	return "Error"
}

func renderError(e *analysis.ErrorInfo, width int) string {
	content := lipgloss.NewStyle().Bold(true).Render(errorTitle(e.Category)) + "\n" + e.Message
	return errorBoxStyle.Width(width - 2).Render(content)
}

func badge(s analysis.Status) string {
	if s == analysis.StatusPass {
		return passBadgeStyle.Render(string(s))
	}
	return failBadgeStyle.Render(string(s))
}

func statusText(s analysis.Status) string {
	if s == analysis.StatusPass {
		return passTextStyle.Render(string(s))
	}
	return failTextStyle.Render(string(s))
}

func renderResult(dm analysis.DisplayModel, width int) string {
	parts := []string{titleStyle.Render("Result") + "  " + badge(dm.Overall)}
	for _, c := range dm.Cards {
		parts = append(parts, renderCard(c, width-2))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderCard(c analysis.Card, width int) string {
	lines := []string{modeNameStyle.Render(c.Title) + "  " + badge(c.Status)}
	for _, row := range c.Checks {
		line := "  " + statusText(row.Status) + " " + row.Label
		if row.Details != "" {
			line += mutedStyle.Render("  " + row.Details)
		}
		lines = append(lines, line)
	}
	if len(c.Issues) > 0 {
		lines = append(lines, labelStyle.Render("Issues"))
		for _, s := range c.Issues {
			lines = append(lines, issueStyle.Render("  • "+s))
		}
	}
	if len(c.Recommendations) > 0 {
		lines = append(lines, labelStyle.Render("Recommendations"))
		for _, s := range c.Recommendations {
			lines = append(lines, recStyle.Render("  • "+s))
		}
	}
	return boxStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if n > len(r) {
		n = len(r)
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
