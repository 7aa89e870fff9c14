// Package diff computes the edit script between two ordered lists
package diff

import (
	"slices"

	"github.com/pstuifzand/listkit/internal/model"
)

// Rows diffs two row lists with the item-level identity and content predicates
func Rows(old, new model.Rows, payload any) *Script {
	return Compute(old, new,
		model.SameIdentity,
		model.SameContent,
		payload)
}

// Compute returns the script that turns old into new. same decides identity
// (keep or move versus remove and insert); content is only consulted for
// pairs of the same identity and decides whether a change is reported.
func Compute[T any](old, new []T, same, content func(a, b T) bool, payload any) *Script {
	n, m := len(old), len(new)
	s := &Script{OldLen: n, NewLen: m}

	oldPair := make([]int, n) // old index -> new index
	newPair := make([]int, m) // new index -> old index
	for i := range oldPair {
		oldPair[i] = -1
	}
	for j := range newPair {
		newPair[j] = -1
	}
	pair := func(i, j int) {
		oldPair[i] = j
		newPair[j] = i
	}

	prefix := 0
	for prefix < n && prefix < m && same(old[prefix], new[prefix]) {
		pair(prefix, prefix)
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && suffix < m-prefix && same(old[n-1-suffix], new[m-1-suffix]) {
		pair(n-1-suffix, m-1-suffix)
		suffix++
	}
	midOld, midNew := n-prefix-suffix, m-prefix-suffix
	for _, p := range lcs(midOld, midNew, func(x, y int) bool {
		return same(old[prefix+x], new[prefix+y])
	}) {
		pair(prefix+p[0], prefix+p[1])
	}

	inLCS := make([]bool, n)
	for i, j := range oldPair {
		inLCS[i] = j >= 0
	}

	// unmatched items of the same identity on both sides become moves
	for j := range newPair {
		if newPair[j] >= 0 {
			continue
		}
		for i := range oldPair {
			if oldPair[i] < 0 && same(old[i], new[j]) {
				pair(i, j)
				break
			}
		}
	}

	for i := n - 1; i >= 0; i-- {
		if oldPair[i] < 0 {
			s.remove(i)
		}
	}

	// cur holds the target index of every surviving old item in live order
	cur := make([]int, 0, n)
	settled := make([]bool, m)
	for i, j := range oldPair {
		if j < 0 {
			continue
		}
		cur = append(cur, j)
		settled[j] = inLCS[i]
	}
	for j := range newPair {
		i := newPair[j]
		if i < 0 || inLCS[i] {
			continue
		}
		from := slices.Index(cur, j)
		cur = slices.Delete(cur, from, from+1)
		to := 0
		for k := len(cur) - 1; k >= 0; k-- {
			if settled[cur[k]] && cur[k] < j {
				to = k + 1
				break
			}
		}
		cur = slices.Insert(cur, to, j)
		settled[j] = true
		if from != to {
			s.move(from, to)
		}
	}

	for j := range newPair {
		if newPair[j] < 0 {
			s.insert(j)
		}
	}

	for j, i := range newPair {
		if i >= 0 && !content(old[i], new[j]) {
			s.change(j, payload)
		}
	}
	return s
}

// lcs returns the matched index pairs of a longest common subsequence of two
// sequences of length n and m, in ascending order. It runs Myers' algorithm
// in linear space: the middle snake splits the problem in two halves that
// are solved recursively, so memory stays O(n+m) however far apart the
// sequences are.
func lcs(n, m int, eq func(x, y int) bool) [][2]int {
	var pairs [][2]int
	var solve func(x0, x1, y0, y1 int)
	solve = func(x0, x1, y0, y1 int) {
		for x0 < x1 && y0 < y1 && eq(x0, y0) {
			pairs = append(pairs, [2]int{x0, y0})
			x0++
			y0++
		}
		var tail [][2]int
		for x0 < x1 && y0 < y1 && eq(x1-1, y1-1) {
			x1--
			y1--
			tail = append(tail, [2]int{x1, y1})
		}
		if x0 < x1 && y0 < y1 {
			if x, y, ok := bisect(x0, x1, y0, y1, eq); ok {
				solve(x0, x, y0, y)
				solve(x, x1, y, y1)
			}
		}
		for i := len(tail) - 1; i >= 0; i-- {
			pairs = append(pairs, tail[i])
		}
	}
	solve(0, n, 0, m)
	return pairs
}

// bisect finds where the forward and backward searches over
// [x0,x1) x [y0,y1) meet. The ranges must not share a prefix or suffix.
// ok is false when the ranges have nothing in common.
func bisect(x0, x1, y0, y1 int, eq func(x, y int) bool) (int, int, bool) {
	n, m := x1-x0, y1-y0
	maxD := (n + m + 1) / 2
	off := maxD
	size := 2 * maxD
	fwd := make([]int, size)
	bwd := make([]int, size)
	for i := range fwd {
		fwd[i] = -1
		bwd[i] = -1
	}
	fwd[off+1] = 0
	bwd[off+1] = 0

	delta := n - m
	// with an odd delta the paths meet during a forward step
	front := delta%2 != 0
	var fStart, fEnd, bStart, bEnd int

	for d := 0; d < maxD; d++ {
		for k := -d + fStart; k <= d-fEnd; k += 2 {
			i := off + k
			var x int
			if k == -d || (k != d && fwd[i-1] < fwd[i+1]) {
				x = fwd[i+1]
			} else {
				x = fwd[i-1] + 1
			}
			y := x - k
			for x < n && y < m && eq(x0+x, y0+y) {
				x++
				y++
			}
			fwd[i] = x
			switch {
			case x > n:
				fEnd += 2
			case y > m:
				fStart += 2
			case front:
				j := off + delta - k
				if j >= 0 && j < size && bwd[j] != -1 && x >= n-bwd[j] {
					return x0 + x, y0 + y, true
				}
			}
		}

		for k := -d + bStart; k <= d-bEnd; k += 2 {
			i := off + k
			var x int
			if k == -d || (k != d && bwd[i-1] < bwd[i+1]) {
				x = bwd[i+1]
			} else {
				x = bwd[i-1] + 1
			}
			y := x - k
			for x < n && y < m && eq(x1-x-1, y1-y-1) {
				x++
				y++
			}
			bwd[i] = x
			switch {
			case x > n:
				bEnd += 2
			case y > m:
				bStart += 2
			case !front:
				j := off + delta - k
				if j >= 0 && j < size && fwd[j] != -1 {
					fx := fwd[j]
					fy := off + fx - j
					if fx >= n-x {
						return x0 + fx, y0 + fy, true
					}
				}
			}
		}
	}
	return 0, 0, false
}

// Replay applies s to a copy of old, taking inserted and changed elements
// from new. Replaying a script computed from old and new yields new.
func Replay[T any](old, new []T, s *Script) []T {
	cur := slices.Clone(old)
	for _, op := range s.Ops {
		switch op.Kind {
		case OpRemove:
			cur = slices.Delete(cur, op.Pos, op.Pos+op.Count)
		case OpMove:
			x := cur[op.From]
			cur = slices.Delete(cur, op.From, op.From+1)
			cur = slices.Insert(cur, op.To, x)
		case OpInsert:
			cur = slices.Insert(cur, op.Pos, new[op.Pos:op.Pos+op.Count]...)
		case OpChange:
			copy(cur[op.Pos:op.Pos+op.Count], new[op.Pos:op.Pos+op.Count])
		}
	}
	return cur
}
