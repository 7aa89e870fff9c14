package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name   string            `toml:"name"`
	Colors map[string]string `toml:"colors"`
}

// fields maps TOML color keys to theme colors
func fields(c *Colors) map[string]*tcell.Color {
	return map[string]*tcell.Color{
		"row_text":       &c.RowText,
		"row_selected":   &c.RowSelected,
		"row_cursor":     &c.RowCursor,
		"group_arrow":    &c.GroupArrow,
		"decoration":     &c.Decoration,
		"header_row":     &c.HeaderRow,
		"footer_row":     &c.FooterRow,
		"sentinel":       &c.Sentinel,
		"loading_badge":  &c.LoadingBadge,
		"query_label":    &c.QueryLabel,
		"query_text":     &c.QueryText,
		"query_error":    &c.QueryError,
		"status_mode":    &c.StatusMode,
		"status_message": &c.StatusMessage,
		"status_clock":   &c.StatusClock,
	}
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "listkit", "themes"),
		filepath.Join(home, ".local", "share", "listkit", "themes"),
	}
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config), nil
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// configToTheme overrides Tokyo Night with the configured colors.
// Unknown keys are ignored.
func configToTheme(config ThemeConfig) *Theme {
	t := TokyoNight()
	slots := fields(&t.Colors)
	for key, value := range config.Colors {
		if slot, ok := slots[key]; ok && value != "" {
			*slot = ParseColorString(value)
		}
	}
	if config.Name != "" {
		t.Name = config.Name
	}
	return t
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	switch themeName {
	case "default":
		return Default()
	case "", "tokyo-night":
		return TokyoNight()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		return TokyoNight()
	}
	return theme
}
