package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/listkit/internal/adapter"
	"github.com/pstuifzand/listkit/internal/config"
	"github.com/pstuifzand/listkit/internal/logging"
	"github.com/pstuifzand/listkit/internal/schedule"
	"github.com/pstuifzand/listkit/internal/ui"
)

// App is the demo application: a filtered list driven from the keyboard
type App struct {
	screen *ui.Screen
	logger *log.Logger
	exec   schedule.Executor

	list   *adapter.List
	view   *ui.ListView
	prompt *ui.QueryPrompt

	keys       []KeyBinding
	pending    []PendingKeyBinding
	pendingKey *PendingKeyBinding

	title      string
	statusMsg  string
	statusTime time.Time
	pages      int
	quit       bool
}

// New creates the app on screen. A nil exec posts work through the
// screen's event queue.
func New(screen *ui.Screen, cfg *config.Config, logger *log.Logger, exec schedule.Executor) *App {
	logger = logging.OrDiscard(logger)
	if exec == nil {
		exec = ui.NewExecutor(screen, logger)
	}

	opts := cfg.List.Options()
	opts.Logger = logger
	opts.Executor = exec
	list := adapter.New(opts)

	a := &App{
		screen: screen,
		logger: logger,
		exec:   exec,
		list:   list,
		view:   ui.NewListView(list, logger.WithPrefix("view")),
		prompt: ui.NewQueryPrompt(),
		title:  cfg.Get("title"),
	}
	if a.title == "" {
		a.title = "listkit demo"
	}
	a.view.ClockFormat = cfg.List.StatusTimeFormat
	a.keys = a.InitializeKeybindings()
	a.pending = a.InitializePendingKeybindings()

	list.OnLoadMore(a.loadMore)
	a.seed()
	a.SetStatus("Ready")
	return a
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	// redraw at least once a second for the clock
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	a.render()
	for !a.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.handleEvent(ev)
			a.render()
		case <-ticker.C:
			a.render()
		}
	}
	return nil
}

// Close stops the list and releases the terminal
func (a *App) Close() error {
	a.list.Close()
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// render draws the list, the query prompt and the status line
func (a *App) render() {
	_, height := a.screen.Size()
	listHeight := height - 1
	if a.prompt.IsActive() {
		listHeight--
	}

	a.view.Render(a.screen, 0, listHeight)
	if a.prompt.IsActive() {
		a.prompt.Render(a.screen, height-2)
	}

	msg := ""
	if time.Since(a.statusTime) < 5*time.Second {
		msg = a.statusMsg
	}
	a.view.RenderStatus(a.screen, height-1, msg)
	a.screen.Show()
}

// handleEvent dispatches one terminal event
func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		if !ui.RunInterrupt(ev) {
			a.logger.Debug("ignoring interrupt", "data", ev.Data())
		}
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		if a.prompt.IsActive() {
			a.handlePromptKey(ev)
			return
		}
		a.handleKeypress(ev)
	}
}

func (a *App) handlePromptKey(ev *tcell.EventKey) {
	switch a.prompt.HandleKey(ev) {
	case ui.PromptEdited:
		a.applyQuery(a.prompt.Input())
	case ui.PromptCancel:
		a.applyQuery("")
	case ui.PromptSubmit:
		if q := a.list.Query(); q != "" {
			a.SetStatus("Filter: " + q)
		}
	}
}

// applyQuery installs text as the list query. Parse errors keep the
// previous query and are shown next to the input.
func (a *App) applyQuery(text string) {
	if err := a.list.SetQuery(text); err != nil {
		a.prompt.SetError(err.Error())
		return
	}
	a.prompt.SetError("")
}

// handleKeypress handles a single keypress in normal mode
func (a *App) handleKeypress(ev *tcell.EventKey) {
	if a.pendingKey != nil {
		pending := a.pendingKey
		a.pendingKey = nil
		if kb, ok := pending.Sequences[ev.Rune()]; ok {
			kb.Handler(a)
		}
		return
	}

	switch ev.Key() {
	case tcell.KeyDown:
		a.view.MoveCursor(1)
		return
	case tcell.KeyUp:
		a.view.MoveCursor(-1)
		return
	case tcell.KeyEnter:
		a.toggleExpand()
		return
	case tcell.KeyEscape:
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	for i := range a.pending {
		if a.pending[i].Prefix == r {
			a.pendingKey = &a.pending[i]
			return
		}
	}
	for _, kb := range a.keys {
		if kb.Key == r {
			kb.Handler(a)
			return
		}
	}
	a.SetStatus(fmt.Sprintf("No binding for %q", r))
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.statusMsg = msg
	a.statusTime = time.Now()
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}
