package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color
	Metadata      lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// JSON colors
	JSONKey     lipgloss.Color
	JSONString  lipgloss.Color
	JSONNumber  lipgloss.Color
	JSONBoolean lipgloss.Color
	JSONNull    lipgloss.Color
	JSONType    lipgloss.Color
	JSONURL     lipgloss.Color

	// Tree affordances
	Caret   lipgloss.Color
	Button  lipgloss.Color
	Copying lipgloss.Color
	Match   lipgloss.Color
	Chroma  string // chroma style for the preview pane
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha", "catppuccin":
		return CatppuccinMochaTheme()
	case "default":
		return DefaultTheme()
	default:
		return DefaultTheme()
	}
}

// Names lists the built-in themes
func Names() []string {
	return []string{"default", "catppuccin-mocha"}
}
