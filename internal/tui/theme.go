package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DefaultThemeName is used when no theme is configured
const DefaultThemeName = "classic"

// Theme carries everything that differs between the list presentations.
// Behaviour is identical across themes.
type Theme struct {
	Name        string
	Heading     string
	Placeholder string
	EmptyText   string
	AddLabel    string
	AddingLabel string
	Checked     string
	Unchecked   string
	Cursor      string

	HeadingStyle  lipgloss.Style
	InputStyle    lipgloss.Style
	ItemStyle     lipgloss.Style
	SelectedStyle lipgloss.Style
	DoneStyle     lipgloss.Style
	CheckStyle    lipgloss.Style
	EmptyStyle    lipgloss.Style
	FooterStyle   lipgloss.Style
	HelpStyle     lipgloss.Style

	// FormTheme styles the delete confirmation
	FormTheme *huh.Theme
}

var themes = map[string]Theme{
	"classic": classicTheme(),
	"mono":    monoTheme(),
	"neon":    neonTheme(),
}

// ThemeNames lists the available themes in alphabetical order
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName looks a theme up case-insensitively; an empty name selects the default
func ThemeByName(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultThemeName
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return t, nil
}

func classicTheme() Theme {
	border := lipgloss.Color("8")
	return Theme{
		Name:        "classic",
		Heading:     "Todo List",
		Placeholder: "Add new todo...",
		EmptyText:   "No todos yet. Add your first one!",
		AddLabel:    "Add",
		AddingLabel: "Adding...",
		Checked:     "[x]",
		Unchecked:   "[ ]",
		Cursor:      "> ",

		HeadingStyle:  lipgloss.NewStyle().Bold(true).MarginBottom(1),
		InputStyle:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		ItemStyle:     lipgloss.NewStyle(),
		SelectedStyle: lipgloss.NewStyle().Bold(true),
		DoneStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Strikethrough(true),
		CheckStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		EmptyStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(1, 0),
		FooterStyle:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(border).Padding(0, 1).MarginTop(1),
		HelpStyle:     lipgloss.NewStyle().Faint(true),

		FormTheme: huh.ThemeBase(),
	}
}

func monoTheme() Theme {
	return Theme{
		Name:        "mono",
		Heading:     "TODO",
		Placeholder: "new item",
		EmptyText:   "Nothing here.",
		AddLabel:    "add",
		AddingLabel: "Adding...",
		Checked:     "☑",
		Unchecked:   "☐",
		Cursor:      "› ",

		HeadingStyle:  lipgloss.NewStyle().Bold(true).Underline(true).MarginBottom(1),
		InputStyle:    lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false),
		ItemStyle:     lipgloss.NewStyle(),
		SelectedStyle: lipgloss.NewStyle().Reverse(true),
		DoneStyle:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		CheckStyle:    lipgloss.NewStyle(),
		EmptyStyle:    lipgloss.NewStyle().Faint(true).Padding(1, 0),
		FooterStyle:   lipgloss.NewStyle().Faint(true).MarginTop(1),
		HelpStyle:     lipgloss.NewStyle().Faint(true),

		FormTheme: huh.ThemeBase16(),
	}
}

func neonTheme() Theme {
	pink := lipgloss.AdaptiveColor{Dark: "#FF4FD8", Light: "#B0127F"}
	cyan := lipgloss.AdaptiveColor{Dark: "#3EF2FF", Light: "#00707A"}
	lime := lipgloss.AdaptiveColor{Dark: "#B6FF3B", Light: "#3F7A00"}
	dim := lipgloss.AdaptiveColor{Dark: "#7A6C99", Light: "#6B5E88"}
	return Theme{
		Name:        "neon",
		Heading:     "✦ TODO ✦",
		Placeholder: "what's next?",
		EmptyText:   "All clear. Queue something up!",
		AddLabel:    "ADD",
		AddingLabel: "Adding...",
		Checked:     "◉",
		Unchecked:   "○",
		Cursor:      "▶ ",

		HeadingStyle:  lipgloss.NewStyle().Bold(true).Foreground(pink).MarginBottom(1),
		InputStyle:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(cyan).Padding(0, 1),
		ItemStyle:     lipgloss.NewStyle().Foreground(cyan),
		SelectedStyle: lipgloss.NewStyle().Bold(true).Foreground(pink),
		DoneStyle:     lipgloss.NewStyle().Foreground(dim).Strikethrough(true),
		CheckStyle:    lipgloss.NewStyle().Foreground(lime),
		EmptyStyle:    lipgloss.NewStyle().Foreground(dim).Italic(true).Padding(1, 0),
		FooterStyle:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(pink).Foreground(cyan).Padding(0, 1).MarginTop(1),
		HelpStyle:     lipgloss.NewStyle().Foreground(dim),

		FormTheme: huh.ThemeDracula(),
	}
}
