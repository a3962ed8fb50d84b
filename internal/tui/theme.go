package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext1 lipgloss.Color = "#bac2de"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface2 lipgloss.Color = "#585b70"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
	colorCrust    lipgloss.Color = "#11111b"
)

// Semantic aliases
const (
	colorBrand   = colorPink
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	headerModeStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	// Mode cards
	modeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
	modeCardCursorStyle = modeCardStyle.BorderForeground(colorFocus)
	modeCardActiveStyle = modeCardStyle.BorderForeground(colorAccent)
	modeNameStyle       = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	modeDescStyle       = lipgloss.NewStyle().Foreground(colorOverlay1)

	labelStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	valueStyle  = lipgloss.NewStyle().Foreground(colorPeach)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorOverlay0)
	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	passBadgeStyle = lipgloss.NewStyle().
			Foreground(colorCrust).
			Background(colorSuccess).
			Bold(true).
			Padding(0, 1)
	failBadgeStyle = lipgloss.NewStyle().
			Foreground(colorCrust).
			Background(colorError).
			Bold(true).
			Padding(0, 1)

	passTextStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	failTextStyle = lipgloss.NewStyle().Foreground(colorError)
	issueStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	recStyle      = lipgloss.NewStyle().Foreground(colorBlue)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Foreground(colorError).
			Padding(0, 1)

	stageStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	spinnerStyle = lipgloss.NewStyle().Foreground(colorMauve)
)
