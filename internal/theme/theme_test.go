package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestHexToColor(t *testing.T) {
	tests := []struct {
		in   string
		want tcell.Color
	}{
		{"#ff0000", tcell.NewRGBColor(255, 0, 0)},
		{"#0f0", tcell.NewRGBColor(0, 255, 0)},
		{"0000ff", tcell.NewRGBColor(0, 0, 255)},
		{"#12", tcell.ColorDefault},
		{"#gggggg", tcell.ColorDefault},
	}
	for _, tt := range tests {
		if got := HexToColor(tt.in); got != tt.want {
			t.Errorf("HexToColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseColorString(t *testing.T) {
	if got := ParseColorString("rgb(1, 2, 3)"); got != tcell.NewRGBColor(1, 2, 3) {
		t.Errorf("Unexpected rgb() color %v", got)
	}
	if got := ParseColorString("rgb(1,2,300)"); got != tcell.ColorDefault {
		t.Errorf("Out of range component should give default, got %v", got)
	}
	if got := ParseColorString("blue-ish"); got != tcell.ColorDefault {
		t.Errorf("Unknown format should give default, got %v", got)
	}
}

func TestBlendEndpoints(t *testing.T) {
	if got := Blend("#000000", "#ffffff", 0); got != HexToColor("#000000") {
		t.Errorf("Blend at 0 should return the first color, got %v", got)
	}
	if got := Blend("#000000", "#ffffff", 1); got != HexToColor("#ffffff") {
		t.Errorf("Blend at 1 should return the second color, got %v", got)
	}
	if got := Blend("nope", "#ffffff", 0.5); got != tcell.ColorDefault {
		t.Errorf("Invalid input should give default, got %v", got)
	}
}

func TestLoadThemeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.toml")
	content := `name = "mine"

[colors]
row_text = "#ffffff"
sentinel = "rgb(10,20,30)"
unknown_key = "#000000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadThemeFromFile(path)
	if err != nil {
		t.Fatalf("LoadThemeFromFile failed: %v", err)
	}
	if th.Name != "mine" {
		t.Errorf("Expected name 'mine', got '%s'", th.Name)
	}
	if th.Colors.RowText != tcell.NewRGBColor(255, 255, 255) {
		t.Errorf("row_text not applied")
	}
	if th.Colors.Sentinel != tcell.NewRGBColor(10, 20, 30) {
		t.Errorf("sentinel not applied")
	}
	if th.Colors.QueryError != TokyoNight().Colors.QueryError {
		t.Errorf("Missing keys should fall back to Tokyo Night")
	}
}

func TestLoadThemeOrDefault(t *testing.T) {
	if LoadThemeOrDefault("default").Name != "default" {
		t.Errorf("Expected default theme")
	}
	if LoadThemeOrDefault("does-not-exist").Name != "tokyo-night" {
		t.Errorf("Expected fallback to tokyo-night")
	}
}
