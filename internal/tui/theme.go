// Package tui renders planner views for the terminal and answers service
// dialogs with interactive huh forms.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pkordes/rv-planner/internal/view"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for section headers.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// CardStyle frames one destination card.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TitleStyle is the card title.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// MutedStyle is used for subtitles, labels and hints.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// EmptyStyle renders empty-state messages.
var EmptyStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true).
	PaddingLeft(2)

// BadgeStyle returns a color-coded style for a card badge class.
func BadgeStyle(class string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch class {
	case view.BadgeVisited:
		return base.Foreground(ColorGreen)
	case view.BadgePriority:
		return base.Foreground(ColorRed)
	case view.BadgeSeason:
		return base.Foreground(ColorYellow)
	case view.BadgeRegion:
		return base.Foreground(ColorOrange)
	case view.BadgeType:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}

// PinStyle returns the marker style for a pin colour class.
func PinStyle(class view.ColorClass) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch class {
	case view.ColorVisited:
		return base.Foreground(ColorGreen)
	case view.ColorUnvisited:
		return base.Foreground(ColorRed)
	case view.ColorCurated:
		return base.Foreground(ColorBlue)
	default:
		return base.Foreground(ColorGray)
	}
}
