package diff

// OpKind is the kind of an edit operation
type OpKind int

const (
	OpRemove OpKind = iota
	OpMove
	OpInsert
	OpChange
)

func (k OpKind) String() string {
	switch k {
	case OpRemove:
		return "remove"
	case OpMove:
		return "move"
	case OpInsert:
		return "insert"
	case OpChange:
		return "change"
	default:
		return "unknown"
	}
}

// Op is one edit operation. Positions refer to the live list at the moment
// the operation is applied, so operations must be applied in order.
type Op struct {
	Kind    OpKind
	Pos     int // remove, insert, change
	Count   int // remove, insert, change
	From    int // move
	To      int // move
	Payload any // change
}

// Script is the ordered edit script that turns an old list into a new one.
// Removes come first (descending), then moves, then inserts (ascending),
// then changes at final positions.
type Script struct {
	Ops    []Op
	OldLen int
	NewLen int
}

// Empty reports whether the script changes nothing
func (s *Script) Empty() bool {
	return s == nil || len(s.Ops) == 0
}

// Count returns the number of operations of a kind
func (s *Script) Count(kind OpKind) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, op := range s.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (s *Script) remove(pos int) {
	if n := len(s.Ops); n > 0 {
		last := &s.Ops[n-1]
		if last.Kind == OpRemove && last.Pos == pos+1 {
			last.Pos = pos
			last.Count++
			return
		}
	}
	s.Ops = append(s.Ops, Op{Kind: OpRemove, Pos: pos, Count: 1})
}

func (s *Script) insert(pos int) {
	if n := len(s.Ops); n > 0 {
		last := &s.Ops[n-1]
		if last.Kind == OpInsert && last.Pos+last.Count == pos {
			last.Count++
			return
		}
	}
	s.Ops = append(s.Ops, Op{Kind: OpInsert, Pos: pos, Count: 1})
}

func (s *Script) change(pos int, payload any) {
	if n := len(s.Ops); n > 0 {
		last := &s.Ops[n-1]
		if last.Kind == OpChange && last.Pos+last.Count == pos {
			last.Count++
			return
		}
	}
	s.Ops = append(s.Ops, Op{Kind: OpChange, Pos: pos, Count: 1, Payload: payload})
}

func (s *Script) move(from, to int) {
	s.Ops = append(s.Ops, Op{Kind: OpMove, From: from, To: to})
}
