package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/feltworks/casino/internal/cards"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	TableStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	PotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	ActiveSeatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	FoldedSeatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Strikethrough(true)

	SeatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	CountdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// FormatCards renders cards with suit colors.
func FormatCards(cs []cards.Card) string {
	if len(cs) == 0 {
		return HelpStyle.Render("--")
	}

	formatted := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.Suit.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(c.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(c.String()))
		}
	}
	return strings.Join(formatted, " ")
}
