package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/staircase/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor strips colour and text attributes from every style. Call it
// when output is not a terminal.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// DayStatusPill returns a colored indicator for a day's status.
func DayStatusPill(status domain.DayStatus) string {
	switch status {
	case domain.DayActive:
		return StyleBlue.Render("● active")
	case domain.DayCompleted:
		return StyleGreen.Render("✔ completed")
	case domain.DayFailed:
		return StyleRed.Render("✖ failed")
	case domain.DayNotStarted:
		return StyleDim.Render("○ not started")
	default:
		return StyleDim.Render(string(status))
	}
}

// StageLock renders the lock state of a stage.
func StageLock(unlocked, completed, active bool) string {
	switch {
	case active:
		return StyleYellow.Render("▶ active")
	case completed:
		return StyleGreen.Render("✔ done")
	case unlocked:
		return StyleFg.Render("◌ open")
	default:
		return StyleDim.Render("🔒 locked")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
