package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/listkit/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreenWithTheme creates and initializes a terminal screen
func NewScreenWithTheme(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFromTcell(tcellScreen, t)
}

// NewScreenFromTcell wraps an existing tcell screen, e.g. a simulation
// screen in tests. The screen is initialized here.
func NewScreenFromTcell(s tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}
	width, height := s.Size()
	return &Screen{
		tcellScreen: s,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws text at the given position and returns the column
// after the last drawn cell. Wide runes take two columns.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetCell(x, y, r, style)
		x += RuneWidth(r)
	}
	return x
}

// DrawStringLimited draws text, truncating it with an ellipsis if it
// exceeds maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return x
	}
	return s.DrawString(x, y, TruncateToWidthWithEllipsis(text, maxWidth), style)
}

// FillLine paints the rest of row y starting at x
func (s *Screen) FillLine(x, y int, style tcell.Style) {
	for ; x < s.width; x++ {
		s.SetCell(x, y, ' ', style)
	}
}

// PollEvent polls for the next event (key press, resize, interrupt)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// PostEvent queues an event for PollEvent
func (s *Screen) PostEvent(ev tcell.Event) error {
	return s.tcellScreen.PostEvent(ev)
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync refreshes the size after a resize event
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
	s.width, s.height = s.tcellScreen.Size()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	s.width, s.height = s.tcellScreen.Size()
	return s.width, s.height
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// Theme-aware style methods

// RowStyle returns the style for normal rows
func (s *Screen) RowStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.RowText)
}

// RowSelectedStyle returns the style for selected rows
func (s *Screen) RowSelectedStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.RowSelected).Bold(true)
}

// CursorStyle returns the style for the cursor line
func (s *Screen) CursorStyle(base tcell.Style) tcell.Style {
	if s.Theme.Colors.RowCursor == tcell.ColorDefault {
		return base.Reverse(true)
	}
	return base.Background(s.Theme.Colors.RowCursor)
}

// GroupArrowStyle returns the style for group expand arrows
func (s *Screen) GroupArrowStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.GroupArrow)
}

// DecorationStyle returns the style for decoration rows
func (s *Screen) DecorationStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.Decoration).Dim(true)
}

// HeaderStyle returns the style for header section rows
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.HeaderRow).Bold(true)
}

// FooterStyle returns the style for footer section rows
func (s *Screen) FooterStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.FooterRow).Dim(true)
}

// SentinelStyle returns the style for status and load-more rows
func (s *Screen) SentinelStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.Sentinel).Italic(true)
}

// LoadingBadgeStyle returns the style for the lazy-load badge
func (s *Screen) LoadingBadgeStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.LoadingBadge)
}

// QueryLabelStyle returns the style for the query prompt label
func (s *Screen) QueryLabelStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.QueryLabel).Bold(true)
}

// QueryTextStyle returns the style for query input
func (s *Screen) QueryTextStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.QueryText)
}

// QueryErrorStyle returns the style for query parse errors
func (s *Screen) QueryErrorStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.QueryError)
}

// StatusModeStyle returns the style for the mode indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.StatusMode).Bold(true).Reverse(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.StatusMessage)
}

// StatusClockStyle returns the style for the status clock
func (s *Screen) StatusClockStyle() tcell.Style {
	return theme.Style(s.Theme.Colors.StatusClock).Dim(true)
}
