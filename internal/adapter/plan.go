package adapter

import (
	"github.com/pstuifzand/listkit/internal/diff"
	"github.com/pstuifzand/listkit/internal/dispatch"
	"github.com/pstuifzand/listkit/internal/filter"
	"github.com/pstuifzand/listkit/internal/model"
)

// plan decides what a finished pass sends to the sink and reports whether
// the pass was dispatched in place.
//
// A pass triggered by a source item normally dispatches the script and adds
// change notifications for the rows that depend on the source. When the
// list kept its length and shape, nothing depends on the source and no
// interceptor forced a full dispatch, the pass is in place: the script can
// only hold change ops then, and the source row is notified even when its
// snapshot compares equal, because the caller asked for it. Change ops for
// other rows are kept; a debounced pass may carry edits of several items.
// A forced full dispatch (a relational hide by the source) always wins.
func plan(p *filter.Params, old, rows model.Rows, script *diff.Script, inPlaceAllowed bool) (dispatch.Update, bool) {
	u := dispatch.Update{Script: script, Rows: rows}
	if p.SourceItem == nil {
		return u, false
	}

	covered := make(map[int]bool)
	for _, op := range script.Ops {
		if op.Kind == diff.OpChange {
			for k := op.Pos; k < op.Pos+op.Count; k++ {
				covered[k] = true
			}
		}
	}
	deps := dependents(rows, p.SourceItem)

	structural := script.Count(diff.OpRemove) + script.Count(diff.OpMove) + script.Count(diff.OpInsert)
	inPlace := inPlaceAllowed &&
		!p.EmptyDependentsStillDispatch &&
		len(deps) == 0 &&
		len(old) == len(rows) &&
		structural == 0

	if inPlace {
		if pos := rows.IndexOf(p.SourceItem); pos >= 0 && !covered[pos] {
			u.Changes = append(u.Changes, dispatch.Change{Pos: pos, Payload: p.Payload})
		}
		return u, true
	}

	for _, pos := range deps {
		if !covered[pos] {
			u.Changes = append(u.Changes, dispatch.Change{Pos: pos, Payload: p.Payload})
		}
	}
	return u, false
}

// dependents returns the positions of rows whose item depends on source
func dependents(rows model.Rows, source *model.Item) []int {
	var out []int
	for i, r := range rows {
		if r.Item == source {
			continue
		}
		if d, ok := r.Item.Data.(model.Dependent); ok && d.DependsOn(r.Item, source) {
			out = append(out, i)
		}
	}
	return out
}
