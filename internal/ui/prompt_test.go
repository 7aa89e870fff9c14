package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func typeText(p *QueryPrompt, s string) {
	for _, r := range s {
		p.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestQueryPromptEditing(t *testing.T) {
	p := NewQueryPrompt()
	p.Start("")
	assert.True(t, p.IsActive())

	typeText(p, "fruit")
	assert.Equal(t, "fruit", p.Input())

	p.HandleKey(key(tcell.KeyHome))
	typeText(p, "!")
	assert.Equal(t, "!fruit", p.Input())

	p.HandleKey(key(tcell.KeyEnd))
	assert.Equal(t, PromptEdited, p.HandleKey(key(tcell.KeyBackspace2)))
	assert.Equal(t, "!frui", p.Input())

	p.HandleKey(key(tcell.KeyHome))
	assert.Equal(t, PromptEdited, p.HandleKey(key(tcell.KeyDelete)))
	assert.Equal(t, "frui", p.Input())
	assert.Equal(t, PromptNone, p.HandleKey(key(tcell.KeyBackspace2)), "backspace at start is a no-op")
}

func TestQueryPromptSubmitAndHistory(t *testing.T) {
	p := NewQueryPrompt()
	p.Start("")
	typeText(p, "apple")
	assert.Equal(t, PromptSubmit, p.HandleKey(key(tcell.KeyEnter)))
	assert.False(t, p.IsActive())

	p.Start("")
	typeText(p, "pear")
	p.HandleKey(key(tcell.KeyEnter))
	assert.Equal(t, []string{"apple", "pear"}, p.History())

	p.Start("dra")
	p.HandleKey(key(tcell.KeyUp))
	assert.Equal(t, "pear", p.Input())
	p.HandleKey(key(tcell.KeyUp))
	assert.Equal(t, "apple", p.Input())
	p.HandleKey(key(tcell.KeyDown))
	p.HandleKey(key(tcell.KeyDown))
	assert.Equal(t, "dra", p.Input(), "navigating past the end restores the draft")
}

func TestQueryPromptCancel(t *testing.T) {
	p := NewQueryPrompt()
	p.Start("abc")
	p.SetError("bad query")
	assert.Equal(t, PromptCancel, p.HandleKey(key(tcell.KeyEscape)))
	assert.Equal(t, "", p.Input())
	assert.False(t, p.IsActive())
	assert.Empty(t, p.History())
}

func TestQueryPromptRender(t *testing.T) {
	screen, sim := newSimScreen(t, 20, 2)
	p := NewQueryPrompt()
	p.Start("tag:x")
	p.Render(screen, 1)
	screen.Show()
	assert.Equal(t, "/tag:x", rowText(sim, 1))
}
