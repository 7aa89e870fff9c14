package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pstuifzand/listkit/internal/model"
)

// FilterExpr represents a filter expression that can match rows
type FilterExpr interface {
	Matches(row model.Row) bool
	String() string // For debug output
}

// TextExpr matches rows whose text contains the search term (case-insensitive)
type TextExpr struct {
	term string
}

func NewTextExpr(term string) *TextExpr {
	return &TextExpr{term: strings.ToLower(term)}
}

func (e *TextExpr) Matches(row model.Row) bool {
	return strings.Contains(strings.ToLower(row.Item.SearchText()), e.term)
}

func (e *TextExpr) String() string {
	return fmt.Sprintf("text(%q)", e.term)
}

// FuzzyExpr matches rows whose text fuzzy-matches the search term (case-insensitive)
type FuzzyExpr struct {
	term string
}

func NewFuzzyExpr(term string) *FuzzyExpr {
	return &FuzzyExpr{term: strings.ToLower(term)}
}

func (e *FuzzyExpr) Matches(row model.Row) bool {
	return fuzzy.MatchFold(e.term, row.Item.SearchText())
}

func (e *FuzzyExpr) String() string {
	return fmt.Sprintf("fuzzy(%q)", e.term)
}


// RegexExpr matches rows whose text matches a regular expression pattern
type RegexExpr struct {
	pattern string
	re      *regexp.Regexp
}

func NewRegexExpr(pattern string) (*RegexExpr, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return &RegexExpr{pattern: pattern, re: re}, nil
}

func (e *RegexExpr) Matches(row model.Row) bool {
	return e.re.MatchString(row.Item.SearchText())
}

func (e *RegexExpr) String() string {
	return fmt.Sprintf("regex(/%s/)", e.pattern)
}

// AlwaysMatchExpr matches every row
type AlwaysMatchExpr struct{}

func NewAlwaysMatchExpr() *AlwaysMatchExpr {
	return &AlwaysMatchExpr{}
}

func (e *AlwaysMatchExpr) Matches(row model.Row) bool {
	return true
}

func (e *AlwaysMatchExpr) String() string {
	return "all"
}

// AndExpr matches when both sides match
type AndExpr struct {
	left  FilterExpr
	right FilterExpr
}

func NewAndExpr(left, right FilterExpr) *AndExpr {
	return &AndExpr{left: left, right: right}
}

func (e *AndExpr) Matches(row model.Row) bool {
	return e.left.Matches(row) && e.right.Matches(row)
}

func (e *AndExpr) String() string {
	return fmt.Sprintf("(%s AND %s)", e.left, e.right)
}

// OrExpr matches when either side matches
type OrExpr struct {
	left  FilterExpr
	right FilterExpr
}

func NewOrExpr(left, right FilterExpr) *OrExpr {
	return &OrExpr{left: left, right: right}
}

func (e *OrExpr) Matches(row model.Row) bool {
	return e.left.Matches(row) || e.right.Matches(row)
}

func (e *OrExpr) String() string {
	return fmt.Sprintf("(%s OR %s)", e.left, e.right)
}

// NotExpr inverts its operand
type NotExpr struct {
	expr FilterExpr
}

func NewNotExpr(expr FilterExpr) *NotExpr {
	return &NotExpr{expr: expr}
}

func (e *NotExpr) Matches(row model.Row) bool {
	return !e.expr.Matches(row)
}

func (e *NotExpr) String() string {
	return fmt.Sprintf("NOT %s", e.expr)
}

// TagFilter matches rows whose item tag equals the value
type TagFilter struct {
	tag string
}

func NewTagFilter(tag string) *TagFilter {
	return &TagFilter{tag: tag}
}

func (e *TagFilter) Matches(row model.Row) bool {
	return row.Item.Tag == e.tag
}

func (e *TagFilter) String() string {
	return fmt.Sprintf("tag(%s)", e.tag)
}

// DepthFilter compares the nesting depth of a row
type DepthFilter struct {
	op    ComparisonOp
	value int
}

func NewDepthFilter(op ComparisonOp, value string) (*DepthFilter, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid depth value %q: %w", value, err)
	}
	return &DepthFilter{op: op, value: n}, nil
}

func (e *DepthFilter) Matches(row model.Row) bool {
	return compare(row.Depth, e.op, e.value)
}

func (e *DepthFilter) String() string {
	return fmt.Sprintf("depth%s%d", e.op, e.value)
}

// FlagFilter matches rows by item flag (is:selected, is:group, ...)
type FlagFilter struct {
	flag string
}

var knownFlags = map[string]bool{
	"selected": true, "group": true, "expanded": true, "collapsed": true, "loading": true,
}

func NewFlagFilter(flag string) (*FlagFilter, error) {
	if !knownFlags[flag] {
		return nil, fmt.Errorf("unknown flag %q", flag)
	}
	return &FlagFilter{flag: flag}, nil
}

func (e *FlagFilter) Matches(row model.Row) bool {
	switch e.flag {
	case "selected":
		return row.State.Selected
	case "group":
		return row.State.GroupHead
	case "expanded":
		return row.State.Expanded
	case "collapsed":
		return !row.State.Expanded
	case "loading":
		return row.State.Loading
	}
	return false
}

func (e *FlagFilter) String() string {
	return fmt.Sprintf("is(%s)", e.flag)
}

func compare(a int, op ComparisonOp, b int) bool {
	switch op {
	case OpEqual:
		return a == b
	case OpNotEqual:
		return a != b
	case OpGreater:
		return a > b
	case OpGreaterEqual:
		return a >= b
	case OpLess:
		return a < b
	case OpLessEqual:
		return a <= b
	default:
		return false
	}
}
