package viz

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme pairs frame colours for the animation with the accent used for
// terminal output. Bodies colours apply to explicit bodies without their
// own colour, in order.
type Theme struct {
	Name       string
	Background string
	Foreground string
	Bodies     []string
	Accent     lipgloss.Color
}

var (
	ThemePaper = Theme{
		Name:       "paper",
		Background: "#ffffff",
		Foreground: "#000000",
		Accent:     lipgloss.Color("#00ffff"),
	}

	ThemeNight = Theme{
		Name:       "night",
		Background: "#0a0a14",
		Foreground: "#f0f0f0",
		Bodies:     []string{"#ff6b6b", "#feca57", "#48dbfb"},
		Accent:     lipgloss.Color("#ff00ff"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Background: "#001100",
		Foreground: "#00ff00",
		Accent:     lipgloss.Color("#00ff00"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Background: "#001a33",
		Foreground: "#e0f0ff",
		Bodies:     []string{"#00a8cc", "#ffd700", "#00ff88"},
		Accent:     lipgloss.Color("#0077be"),
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Background: "#2d1b2e",
		Foreground: "#fff5f5",
		Bodies:     []string{"#ff6b6b", "#feca57", "#ff9ff3"},
		Accent:     lipgloss.Color("#ff6b6b"),
	}

	Themes = []Theme{
		ThemePaper,
		ThemeNight,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns the named theme and whether it exists.
func GetTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return ThemePaper, false
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}
