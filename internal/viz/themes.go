package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the live viewer.
type Theme struct {
	Name      string
	Disk      lipgloss.Color
	Protostar lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:      "night",
		Disk:      lipgloss.Color("#e8e8ff"),
		Protostar: lipgloss.Color("#ffff00"),
		Accent:    lipgloss.Color("#00ffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
	}

	ThemeInfrared = Theme{
		Name:      "infrared",
		Disk:      lipgloss.Color("#ff6b6b"),
		Protostar: lipgloss.Color("#fff5c0"),
		Accent:    lipgloss.Color("#feca57"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Disk:      lipgloss.Color("#00ff00"),
		Protostar: lipgloss.Color("#88ff88"),
		Accent:    lipgloss.Color("#00cc00"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
	}

	Themes = []Theme{
		ThemeNight,
		ThemeInfrared,
		ThemeRetroGreen,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme returns the index after i, wrapping around.
func nextTheme(i int) int { return (i + 1) % len(Themes) }
