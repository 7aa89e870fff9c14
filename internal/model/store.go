package model

// Store holds the three backing collections of a list. Their concatenation
// header, body, footer is the authoritative source list.
type Store struct {
	sections [3][]*Item
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

func (s *Store) valid(section Section) bool {
	return section >= Header && section <= Footer
}

// Items returns a copy of a section's items
func (s *Store) Items(section Section) []*Item {
	if !s.valid(section) {
		return nil
	}
	out := make([]*Item, len(s.sections[section]))
	copy(out, s.sections[section])
	return out
}

// Len returns the number of items in a section
func (s *Store) Len(section Section) int {
	if !s.valid(section) {
		return 0
	}
	return len(s.sections[section])
}

// Total returns the length of the concatenated source list
func (s *Store) Total() int {
	return len(s.sections[Header]) + len(s.sections[Body]) + len(s.sections[Footer])
}

// Rows returns the concatenated source list as root-level rows
func (s *Store) Rows() Rows {
	rows := make(Rows, 0, s.Total())
	for sec := Header; sec <= Footer; sec++ {
		for _, item := range s.sections[sec] {
			rows = append(rows, NewRow(item, sec))
		}
	}
	return rows
}

// Append adds items at the end of a section
func (s *Store) Append(section Section, items ...*Item) bool {
	if !s.valid(section) {
		return false
	}
	s.sections[section] = append(s.sections[section], items...)
	return true
}

// Insert adds items before index in a section
func (s *Store) Insert(section Section, index int, items ...*Item) bool {
	if !s.valid(section) || index < 0 || index > len(s.sections[section]) {
		return false
	}
	cur := s.sections[section]
	next := make([]*Item, 0, len(cur)+len(items))
	next = append(next, cur[:index]...)
	next = append(next, items...)
	next = append(next, cur[index:]...)
	s.sections[section] = next
	return true
}

// Remove deletes item from whichever section holds it
func (s *Store) Remove(item *Item) bool {
	sec, idx := s.Locate(item)
	if idx < 0 {
		return false
	}
	return s.RemoveAt(sec, idx)
}

// RemoveAt deletes the item at index in a section
func (s *Store) RemoveAt(section Section, index int) bool {
	if !s.valid(section) || index < 0 || index >= len(s.sections[section]) {
		return false
	}
	cur := s.sections[section]
	next := make([]*Item, 0, len(cur)-1)
	next = append(next, cur[:index]...)
	next = append(next, cur[index+1:]...)
	s.sections[section] = next
	return true
}

// Replace swaps the item at index for item
func (s *Store) Replace(section Section, index int, item *Item) bool {
	if !s.valid(section) || index < 0 || index >= len(s.sections[section]) {
		return false
	}
	s.sections[section][index] = item
	return true
}

// Move reorders an item inside a section
func (s *Store) Move(section Section, from, to int) bool {
	if !s.valid(section) {
		return false
	}
	cur := s.sections[section]
	if from < 0 || from >= len(cur) || to < 0 || to >= len(cur) {
		return false
	}
	if from == to {
		return true
	}
	item := cur[from]
	next := make([]*Item, 0, len(cur))
	next = append(next, cur[:from]...)
	next = append(next, cur[from+1:]...)
	next = append(next[:to], append([]*Item{item}, next[to:]...)...)
	s.sections[section] = next
	return true
}

// Reset replaces the whole section
func (s *Store) Reset(section Section, items ...*Item) bool {
	if !s.valid(section) {
		return false
	}
	next := make([]*Item, len(items))
	copy(next, items)
	s.sections[section] = next
	return true
}

// Locate returns the section and index of item, or index -1
func (s *Store) Locate(item *Item) (Section, int) {
	for sec := Header; sec <= Footer; sec++ {
		for idx, it := range s.sections[sec] {
			if it == item {
				return sec, idx
			}
		}
	}
	return Body, -1
}

// Walk visits every item and its materialized sub-items depth-first until fn returns false
func (s *Store) Walk(fn func(item *Item) bool) {
	seen := make(map[*Item]bool)
	for sec := Header; sec <= Footer; sec++ {
		for _, item := range s.sections[sec] {
			if !walk(item, fn, seen) {
				return
			}
		}
	}
}

func walk(item *Item, fn func(*Item) bool, seen map[*Item]bool) bool {
	if seen[item] {
		return true
	}
	seen[item] = true
	if !fn(item) {
		return false
	}
	for _, child := range item.Children {
		if !walk(child, fn, seen) {
			return false
		}
	}
	return true
}

// FindByTag finds an item, including sub-items, by tag
func (s *Store) FindByTag(tag string) *Item {
	if tag == "" {
		return nil
	}
	var found *Item
	s.Walk(func(item *Item) bool {
		if item.Tag == tag {
			found = item
			return false
		}
		return true
	})
	return found
}

// Descendants returns all materialized sub-items of item (depth-first)
func Descendants(item *Item) []*Item {
	var items []*Item
	for _, child := range item.Children {
		items = append(items, child)
		items = append(items, Descendants(child)...)
	}
	return items
}
