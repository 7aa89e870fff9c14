package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds the color definitions used by the list view
type Colors struct {
	// Rows
	RowText      tcell.Color
	RowSelected  tcell.Color
	RowCursor    tcell.Color // cursor line background
	GroupArrow   tcell.Color
	Decoration   tcell.Color
	HeaderRow    tcell.Color
	FooterRow    tcell.Color
	Sentinel     tcell.Color
	LoadingBadge tcell.Color

	// Query prompt
	QueryLabel tcell.Color
	QueryText  tcell.Color
	QueryError tcell.Color

	// Status line
	StatusMode    tcell.Color
	StatusMessage tcell.Color
	StatusClock   tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a theme using terminal defaults
func Default() *Theme {
	d := tcell.ColorDefault
	return &Theme{
		Name: "default",
		Colors: Colors{
			RowText: d, RowSelected: d, RowCursor: d, GroupArrow: d, Decoration: d,
			HeaderRow: d, FooterRow: d, Sentinel: d, LoadingBadge: d,
			QueryLabel: d, QueryText: d, QueryError: d,
			StatusMode: d, StatusMessage: d, StatusClock: d,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			RowText:       HexToColor("#c0caf5"), // Light gray-blue
			RowSelected:   HexToColor("#7aa2f7"), // Blue
			RowCursor:     Blend("#1a1b26", "#7aa2f7", 0.2),
			GroupArrow:    HexToColor("#7dcfff"), // Cyan
			Decoration:    HexToColor("#565f89"), // Comment gray
			HeaderRow:     HexToColor("#bb9af7"), // Magenta
			FooterRow:     HexToColor("#565f89"),
			Sentinel:      HexToColor("#e0af68"), // Yellow
			LoadingBadge:  HexToColor("#9ece6a"), // Green
			QueryLabel:    HexToColor("#bb9af7"),
			QueryText:     HexToColor("#c0caf5"),
			QueryError:    HexToColor("#f7768e"), // Red
			StatusMode:    HexToColor("#bb9af7"),
			StatusMessage: HexToColor("#9ece6a"),
			StatusClock:   HexToColor("#565f89"),
		},
	}
}
