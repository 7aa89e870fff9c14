package diff

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// LineType classifies a rendered script line
type LineType int

const (
	LineHeader LineType = iota
	LineRemove
	LineMove
	LineInsert
	LineChange
	LineSummary
	LineBlank
)

// Line is one rendered line of script output
type Line struct {
	Type    LineType
	Content string
	Indent  int
}

// Labels resolves the display text of an element of the old or new list
type Labels struct {
	Old func(i int) string
	New func(j int) string
}

func (o Op) String() string {
	switch o.Kind {
	case OpMove:
		return fmt.Sprintf("move %d -> %d", o.From, o.To)
	case OpChange:
		if o.Payload != nil {
			return fmt.Sprintf("change %d (+%d) %v", o.Pos, o.Count, o.Payload)
		}
		return fmt.Sprintf("change %d (+%d)", o.Pos, o.Count)
	default:
		return fmt.Sprintf("%s %d (+%d)", o.Kind, o.Pos, o.Count)
	}
}

func (s *Script) String() string {
	if s.Empty() {
		return "no changes"
	}
	parts := make([]string, len(s.Ops))
	for i, op := range s.Ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, "; ")
}

// BuildLines converts a script into display lines for the CLI.
// Labels may be nil, in which case only positions are shown.
func BuildLines(s *Script, labels *Labels) []Line {
	var lines []Line
	if s.Empty() {
		return []Line{{Type: LineSummary, Content: "No changes detected"}}
	}

	// removes run in descending order so their positions are old indices
	for _, op := range s.Ops {
		switch op.Kind {
		case OpRemove:
			lines = append(lines, Line{Type: LineRemove, Content: op.String(), Indent: 1})
			if labels != nil && labels.Old != nil {
				for k := 0; k < op.Count; k++ {
					lines = append(lines, Line{Type: LineRemove, Content: truncateText(labels.Old(op.Pos+k), 60), Indent: 2})
				}
			}
		case OpMove:
			lines = append(lines, Line{Type: LineMove, Content: op.String(), Indent: 1})
		case OpInsert:
			lines = append(lines, Line{Type: LineInsert, Content: op.String(), Indent: 1})
			if labels != nil && labels.New != nil {
				for k := 0; k < op.Count; k++ {
					lines = append(lines, Line{Type: LineInsert, Content: truncateText(labels.New(op.Pos+k), 60), Indent: 2})
				}
			}
		case OpChange:
			lines = append(lines, Line{Type: LineChange, Content: op.String(), Indent: 1})
			if labels != nil && labels.New != nil {
				for k := 0; k < op.Count; k++ {
					lines = append(lines, Line{Type: LineChange, Content: truncateText(labels.New(op.Pos+k), 60), Indent: 2})
				}
			}
		}
	}

	lines = append(lines, Line{Type: LineBlank})
	lines = append(lines, Line{Type: LineSummary, Content: "=== Summary ==="})
	lines = append(lines, Line{
		Type: LineSummary,
		Content: fmt.Sprintf("  %d removed, %d moved, %d inserted, %d changed",
			countItems(s, OpRemove), s.Count(OpMove), countItems(s, OpInsert), countItems(s, OpChange)),
	})
	return lines
}

// Render writes lines as indented plain text
func Render(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(strings.Repeat("  ", l.Indent))
		b.WriteString(l.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

// Dump returns a verbose dump of the script for debugging
func Dump(s *Script) string {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	return cfg.Sdump(s)
}

func countItems(s *Script, kind OpKind) int {
	n := 0
	for _, op := range s.Ops {
		if op.Kind == kind {
			n += op.Count
		}
	}
	return n
}

// truncateText limits text length for display
func truncateText(text string, maxLen int) string {
	lines := strings.Split(text, "\n")
	text = lines[0]
	if len(lines) > 1 {
		text += " ..."
	}
	if r := []rune(text); len(r) > maxLen {
		return string(r[:maxLen]) + "..."
	}
	return text
}
