package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pstuifzand/listkit/internal/adapter"
	"github.com/pstuifzand/listkit/internal/filter"
	"github.com/pstuifzand/listkit/internal/model"
)

// maxPages is how many load-more pages the demo serves
const maxPages = 3

var loadDelay = 400 * time.Millisecond

// remoteFolder loads its children after a delay, failing when asked to
type remoteFolder struct {
	names []string
	fail  bool
}

func (f remoteFolder) LoadChildren(ctx context.Context, item *model.Item) ([]*model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(loadDelay):
	}
	if f.fail {
		return nil, errors.New("remote folder unavailable")
	}
	children := make([]*model.Item, len(f.names))
	for i, n := range f.names {
		children[i] = model.NewItem(n)
	}
	return children, nil
}

// spoilerGuard hides every item mentioning spoilers while it is listed
type spoilerGuard struct{}

func (spoilerGuard) Hides(self, candidate *model.Item) bool {
	return self != candidate && strings.Contains(strings.ToLower(candidate.Text), "spoiler")
}

// seed fills the list with demo content
func (a *App) seed() {
	a.list.Add(model.Header, []*model.Item{model.NewItem(a.title)})

	deco := model.NewItem("────────")
	deco.Decoration = true

	guard := model.NewItem("Spoiler guard (x to remove)")
	guard.Data = spoilerGuard{}

	remote := model.NewItem("Remote folder")
	remote.Data = remoteFolder{names: []string{"report.pdf", "notes.txt", "photo.jpg"}}

	broken := model.NewItem("Broken folder")
	broken.Data = remoteFolder{fail: true}

	body := []*model.Item{
		model.NewGroup("Fruit", true),
		model.NewItem("apple"),
		model.NewItem("banana"),
		model.NewItem("cherry"),
		model.NewGroup("Vegetables", false),
		model.NewItem("carrot"),
		model.NewItem("leek"),
		model.NewGroup("Other", true),
		remote,
		broken,
		deco,
		guard,
		model.NewItem("Movie ending (spoiler)"),
	}
	for _, item := range body {
		item.Tag = model.NewTag()
	}
	a.list.Add(model.Body, body)
	a.list.Add(model.Footer, []*model.Item{model.NewItem("j/k move  space select  / filter  q quit")}, filter.Now())
}

// loadMore fetches the next page off the event loop and appends it
func (a *App) loadMore() {
	page := a.pages + 1
	a.logger.Info("loading page", "page", page)
	go func() {
		time.Sleep(loadDelay)
		a.exec.Post(func() {
			a.pages = page
			items := make([]*model.Item, 5)
			for i := range items {
				items[i] = model.NewItem(fmt.Sprintf("page %d item %d", page, i+1))
			}
			a.list.Add(model.Body, items)
			if page >= maxPages {
				a.list.SetLoadMoreState(adapter.LoadMoreNoMore)
				return
			}
			a.list.SetLoadMoreState(adapter.LoadMoreNormal)
		})
	}()
}
