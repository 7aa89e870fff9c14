package filter

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/pstuifzand/listkit/internal/model"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

type rowSummary struct {
	Text    string
	Section string
	Depth   int
	Parent  int
	State   model.State
}

// DumpRows renders rows for debug logging
func DumpRows(rows model.Rows) string {
	summary := make([]rowSummary, len(rows))
	for i, r := range rows {
		summary[i] = rowSummary{
			Text:    r.Item.Text,
			Section: r.Section.String(),
			Depth:   r.Depth,
			Parent:  r.Parent,
			State:   r.State,
		}
	}
	return dumper.Sdump(summary)
}
