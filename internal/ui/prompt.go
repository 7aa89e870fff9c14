package ui

import (
	"github.com/gdamore/tcell/v2"
)

// PromptResult tells the caller what a key press did to the prompt
type PromptResult int

const (
	PromptNone    PromptResult = iota
	PromptEdited               // input changed, query should be re-applied
	PromptSubmit               // enter pressed
	PromptCancel               // escape pressed, input cleared
)

// QueryPrompt is the `/query` input line. Every edit is reported so the
// list can filter while the user types.
type QueryPrompt struct {
	active  bool
	input   []rune
	cursor  int
	err     string
	history []string
	histIdx int
	temp    string
}

// NewQueryPrompt creates an inactive prompt
func NewQueryPrompt() *QueryPrompt {
	return &QueryPrompt{histIdx: -1}
}

// Start activates the prompt with the given initial input
func (p *QueryPrompt) Start(initial string) {
	p.active = true
	p.input = []rune(initial)
	p.cursor = len(p.input)
	p.err = ""
	p.histIdx = -1
}

// Stop deactivates the prompt
func (p *QueryPrompt) Stop() {
	p.active = false
}

// IsActive returns whether the prompt takes input
func (p *QueryPrompt) IsActive() bool {
	return p.active
}

// Input returns the current text
func (p *QueryPrompt) Input() string {
	return string(p.input)
}

// SetError shows a parse error next to the input; empty clears it
func (p *QueryPrompt) SetError(msg string) {
	p.err = msg
}

// History returns the submitted queries, oldest first
func (p *QueryPrompt) History() []string {
	return append([]string(nil), p.history...)
}

func (p *QueryPrompt) set(s string) {
	p.input = []rune(s)
	p.cursor = len(p.input)
}

func (p *QueryPrompt) remember(s string) {
	if s == "" || (len(p.history) > 0 && p.history[len(p.history)-1] == s) {
		return
	}
	p.history = append(p.history, s)
	if len(p.history) > 50 {
		p.history = p.history[len(p.history)-50:]
	}
}

// HandleKey processes a key press
func (p *QueryPrompt) HandleKey(ev *tcell.EventKey) PromptResult {
	switch ev.Key() {
	case tcell.KeyEscape:
		p.Stop()
		p.input = nil
		p.cursor = 0
		p.err = ""
		return PromptCancel
	case tcell.KeyEnter:
		p.remember(p.Input())
		p.Stop()
		return PromptSubmit
	case tcell.KeyUp:
		if len(p.history) == 0 {
			return PromptNone
		}
		if p.histIdx < 0 {
			p.temp = p.Input()
			p.histIdx = len(p.history) - 1
		} else if p.histIdx > 0 {
			p.histIdx--
		}
		p.set(p.history[p.histIdx])
		return PromptEdited
	case tcell.KeyDown:
		if p.histIdx < 0 {
			return PromptNone
		}
		p.histIdx++
		if p.histIdx >= len(p.history) {
			p.histIdx = -1
			p.set(p.temp)
		} else {
			p.set(p.history[p.histIdx])
		}
		return PromptEdited
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.cursor == 0 {
			return PromptNone
		}
		p.input = append(p.input[:p.cursor-1], p.input[p.cursor:]...)
		p.cursor--
		return PromptEdited
	case tcell.KeyDelete:
		if p.cursor >= len(p.input) {
			return PromptNone
		}
		p.input = append(p.input[:p.cursor], p.input[p.cursor+1:]...)
		return PromptEdited
	case tcell.KeyLeft:
		p.cursor = max(p.cursor-1, 0)
	case tcell.KeyRight:
		p.cursor = min(p.cursor+1, len(p.input))
	case tcell.KeyHome:
		p.cursor = 0
	case tcell.KeyEnd:
		p.cursor = len(p.input)
	case tcell.KeyCtrlU:
		p.input = p.input[p.cursor:]
		p.cursor = 0
		return PromptEdited
	case tcell.KeyRune:
		p.input = append(p.input[:p.cursor], append([]rune{ev.Rune()}, p.input[p.cursor:]...)...)
		p.cursor++
		return PromptEdited
	}
	return PromptNone
}

// Render draws the prompt at row y
func (p *QueryPrompt) Render(screen *Screen, y int) {
	if !p.active {
		return
	}
	width := screen.GetWidth()
	x := screen.DrawString(0, y, "/", screen.QueryLabelStyle())
	start := x
	x = screen.DrawStringLimited(x, y, string(p.input), width-x-1, screen.QueryTextStyle())
	if p.err != "" {
		x = screen.DrawStringLimited(x+2, y, p.err, width-x-2, screen.QueryErrorStyle())
	}
	screen.FillLine(x, y, screen.QueryTextStyle())
	cursorX := start + CursorColumn(p.input, p.cursor)
	screen.SetCell(cursorX, y, p.runeAt(p.cursor), screen.QueryTextStyle().Reverse(true))
}

func (p *QueryPrompt) runeAt(i int) rune {
	if i < len(p.input) {
		return p.input[i]
	}
	return ' '
}
