package filter

import (
	"strings"

	"github.com/pstuifzand/listkit/internal/model"
	"github.com/pstuifzand/listkit/internal/search"
)

// Query keeps body rows matching a search expression together with their
// ancestors. Header, footer and sentinel rows are never filtered.
type Query struct {
	text string
	expr search.FilterExpr
}

// SetQuery parses and installs a query; an empty query disables filtering
func (q *Query) SetQuery(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		q.text, q.expr = "", nil
		return nil
	}
	expr, err := search.ParseQuery(text)
	if err != nil {
		return err
	}
	q.text, q.expr = text, expr
	return nil
}

// Text returns the active query
func (q *Query) Text() string {
	return q.text
}

// String returns the parsed expression tree, or "" without a query
func (q *Query) String() string {
	if q.expr == nil {
		return ""
	}
	return search.ExpressionString(q.expr)
}

func (q *Query) Intercept(c *Call) model.Rows {
	if q.expr == nil {
		return c.Rows
	}
	rows := c.Rows
	keep := make([]bool, len(rows))
	for i, r := range rows {
		if r.Section != model.Body {
			keep[i] = true
			continue
		}
		if !q.expr.Matches(r) {
			continue
		}
		keep[i] = true
		for p := r.Parent; p >= 0 && !keep[p]; p = rows[p].Parent {
			keep[p] = true
		}
	}
	return model.Compact(rows, keep)
}
