package styles

import (
	"imglab/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles defines the core UI styles
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Pane       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Directory  lipgloss.Style
	Label      lipgloss.Style
	Success    lipgloss.Style
	Notice     lipgloss.Style
	Warning    lipgloss.Style
	Help       lipgloss.Style
}

// Theme is the active style set
var Theme = New(config.New())

// New builds styles from the theme colours of cfg
func New(cfg *config.Config) Styles {
	c := cfg.Theme
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Primary)).
			MarginBottom(1),
		Tab: lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#666666")),
		ActiveTab: lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color(c.Emphasis)),
		Pane: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Border)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Success)).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")),
		Directory: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Info)).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Info)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Success)),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Error)).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Warning)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
	}
}

// Apply makes the theme of cfg active
func Apply(cfg *config.Config) {
	Theme = New(cfg)
}
