// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
	mapset "github.com/deckarep/golang-set/v2"
)

// bigIntRef names the value type stored in the satisfaction cache; it is an
// alias rather than a wrapper so callers of CountSatisfyingAssignments keep
// working with the familiar *big.Int.
type bigIntRef = big.Int

// topLevel is a node's level for enumeration purposes, where a leaf sorts
// immediately below every real variable (its level is numVariables) instead
// of the engine-internal sentinel e.level uses for Shannon recursion. Every
// counting and path-walking formula in this file relies on that property to
// bound the "variables skipped" ranges it sums over.
func (e *Engine) topLevel(n Node) int32 {
	if n.isLeaf() {
		return e.numVariables
	}
	return e.vars[n]
}

// *************************************************************************
// Support

func (e *Engine) supportBitset(n Node) *bitset.BitSet {
	visited := make([]bool, e.tableSize)
	result := bitset.New(uint(e.numVariables))
	var rec func(Node)
	rec = func(m Node) {
		if m.isLeaf() || visited[m] {
			return
		}
		visited[m] = true
		result.Set(uint(e.vars[m]))
		rec(e.lows[m])
		rec(e.highs[m])
	}
	rec(n)
	return result
}

// Support returns the set of variables f depends on.
func (e *Engine) Support(f Node) mapset.Set[int32] {
	e.checkNode(f)
	return bitsetToSet(e.supportBitset(f))
}

// SupportFiltered returns the set of variables f depends on, intersected
// with filter.
func (e *Engine) SupportFiltered(f Node, filter *bitset.BitSet) mapset.Set[int32] {
	e.checkNode(f)
	bs := e.supportBitset(f)
	if filter != nil {
		bs = bs.Intersection(filter)
	}
	return bitsetToSet(bs)
}

func bitsetToSet(bs *bitset.BitSet) mapset.Set[int32] {
	out := mapset.NewThreadUnsafeSet[int32]()
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		out.Add(int32(i))
	}
	return out
}

// VarSet builds a bitset of variable levels, the bitset-based equivalent of
// the teacher's Makeset/Scanset cube encoding, suitable as the Q argument of
// Exists/Forall or as vars/filter elsewhere in this file.
func (e *Engine) VarSet(levels ...int32) *bitset.BitSet {
	bs := bitset.New(uint(e.numVariables))
	for _, l := range levels {
		bs.Set(uint(l))
	}
	return bs
}

// *************************************************************************
// Satisfying-assignment counting

// CountSatisfyingAssignments returns the number of assignments of all
// numVariables variables that satisfy f.
func (e *Engine) CountSatisfyingAssignments(f Node) *big.Int {
	e.checkNode(f)
	res := big.NewInt(0)
	res.SetBit(res, int(e.topLevel(f)), 1)
	return res.Mul(res, e.countRec(f))
}

func (e *Engine) countRec(n Node) *big.Int {
	if n == bddFalse {
		return big.NewInt(0)
	}
	if n == bddTrue {
		return big.NewInt(1)
	}
	if cached, ok := e.caches.satisfaction.get(n); ok {
		return cached
	}
	level := e.topLevel(n)
	low, high := e.lows[n], e.highs[n]

	lf := new(big.Int)
	lf.SetBit(lf, int(e.topLevel(low)-level-1), 1)
	lf.Mul(lf, e.countRec(low))

	hf := new(big.Int)
	hf.SetBit(hf, int(e.topLevel(high)-level-1), 1)
	hf.Mul(hf, e.countRec(high))

	res := new(big.Int).Add(lf, hf)
	e.caches.satisfaction.put(n, res)
	return res
}

func countSetBitsBetween(s *bitset.BitSet, lo, hi int32) int {
	n := 0
	for v := lo + 1; v < hi; v++ {
		if s.Test(uint(v)) {
			n++
		}
	}
	return n
}

// CountSatisfyingAssignmentsOver returns the number of assignments of the
// variables in support (only) that satisfy f; variables outside support are
// treated as already fixed along every path and are not counted.
func (e *Engine) CountSatisfyingAssignmentsOver(f Node, support *bitset.BitSet) *big.Int {
	e.checkNode(f)
	top := new(big.Int).Lsh(big.NewInt(1), uint(countSetBitsBetween(support, -1, e.topLevel(f))))
	return top.Mul(top, e.countRecOver(f, support))
}

func (e *Engine) countRecOver(n Node, support *bitset.BitSet) *big.Int {
	if n == bddFalse {
		return big.NewInt(0)
	}
	if n == bddTrue {
		return big.NewInt(1)
	}
	level := e.topLevel(n)
	low, high := e.lows[n], e.highs[n]

	lf := new(big.Int).Lsh(big.NewInt(1), uint(countSetBitsBetween(support, level, e.topLevel(low))))
	lf.Mul(lf, e.countRecOver(low, support))

	hf := new(big.Int).Lsh(big.NewInt(1), uint(countSetBitsBetween(support, level, e.topLevel(high))))
	hf.Mul(hf, e.countRecOver(high, support))

	return new(big.Int).Add(lf, hf)
}

// *************************************************************************
// Path and solution enumeration

// ForEachPath visits every root-to-TRUE path of f exactly once, in
// deterministic order, passing an assignment buffer where entry v is 0 or 1
// if the path fixes variable v, -1 if the path leaves it unconstrained. The
// callback must copy the buffer if it needs to retain it; it returns false
// to stop the walk early.
func (e *Engine) ForEachPath(f Node, callback func(profile []int8) bool) {
	e.checkNode(f)
	profile := make([]int8, e.numVariables)
	for i := range profile {
		profile[i] = -1
	}
	e.forEachPathRec(f, profile, callback)
}

func (e *Engine) forEachPathRec(n Node, profile []int8, callback func([]int8) bool) bool {
	if n == bddTrue {
		return callback(profile)
	}
	if n == bddFalse {
		return true
	}
	lvl := e.topLevel(n)
	if low := e.lows[n]; low != bddFalse {
		profile[lvl] = 0
		for v := e.topLevel(low) - 1; v > lvl; v-- {
			profile[v] = -1
		}
		if !e.forEachPathRec(low, profile, callback) {
			return false
		}
	}
	if high := e.highs[n]; high != bddFalse {
		profile[lvl] = 1
		for v := e.topLevel(high) - 1; v > lvl; v-- {
			profile[v] = -1
		}
		if !e.forEachPathRec(high, profile, callback) {
			return false
		}
	}
	profile[lvl] = -1
	return true
}

// ForEachSolution expands every path of f over its don't-care variables and
// calls callback once per full assignment of all numVariables variables.
// Paths are taken in ForEachPath's order, and the don't-care variables of one
// path are expanded with the lowest index varying slowest, so the assignments
// of a single path come out in lexicographic order (low index first). The
// sequence as a whole is not sorted: for x1|x2 over three variables,
// (x0,x1,x2) = (1,0,1) is emitted before (0,1,0). The callback's buffer is
// reused between calls; retaining it requires a copy.
func (e *Engine) ForEachSolution(f Node, callback func(assignment []bool) bool) {
	e.ForEachSolutionOver(f, nil, callback)
}

// ForEachSolutionOver is like ForEachSolution, but only expands don't-care
// variables that are set in support; a don't-care variable outside support
// is left false in every emitted assignment, while a variable fixed by the
// path keeps its value whether or not it is in support.
func (e *Engine) ForEachSolutionOver(f Node, support *bitset.BitSet, callback func(assignment []bool) bool) {
	e.checkNode(f)
	assignment := make([]bool, e.numVariables)
	free := make([]int32, 0, e.numVariables)
	stopped := false
	e.ForEachPath(f, func(profile []int8) bool {
		free = free[:0]
		for v := int32(0); v < e.numVariables; v++ {
			switch profile[v] {
			case 1:
				assignment[v] = true
			case 0:
				assignment[v] = false
			default:
				assignment[v] = false
				if support == nil || support.Test(uint(v)) {
					free = append(free, v)
				}
			}
		}
		if !e.expandFree(assignment, free, 0, callback) {
			stopped = true
			return false
		}
		return true
	})
	_ = stopped
}

func (e *Engine) expandFree(assignment []bool, free []int32, idx int, callback func([]bool) bool) bool {
	if idx == len(free) {
		return callback(assignment)
	}
	v := free[idx]
	assignment[v] = false
	if !e.expandFree(assignment, free, idx+1, callback) {
		return false
	}
	assignment[v] = true
	if !e.expandFree(assignment, free, idx+1, callback) {
		return false
	}
	assignment[v] = false
	return true
}

// Solution is a full assignment of every variable, indexed by variable
// level.
type Solution []bool

// SolutionIterator produces a finite, non-restartable sequence of
// satisfying assignments. Its Next method is the only way to advance it.
type SolutionIterator struct {
	solutions []Solution
	pos       int
}

// Next returns the next satisfying assignment, or ok=false once the
// sequence is exhausted.
func (it *SolutionIterator) Next() (Solution, bool) {
	if it.pos >= len(it.solutions) {
		return nil, false
	}
	s := it.solutions[it.pos]
	it.pos++
	return s, true
}

// SolutionIterator returns an iterator over every satisfying assignment of
// f, in the same order as ForEachSolution (which is not lexicographic across
// paths).
func (e *Engine) SolutionIterator(f Node) *SolutionIterator {
	return e.SolutionIteratorOver(f, nil)
}

// SolutionIteratorOver is like SolutionIterator, restricted to support as in
// ForEachSolutionOver.
func (e *Engine) SolutionIteratorOver(f Node, support *bitset.BitSet) *SolutionIterator {
	var solutions []Solution
	e.ForEachSolutionOver(f, support, func(assignment []bool) bool {
		cp := make(Solution, len(assignment))
		copy(cp, assignment)
		solutions = append(solutions, cp)
		return true
	})
	return &SolutionIterator{solutions: solutions}
}

// GetSatisfyingAssignment returns any single satisfying assignment of f. It
// raises InvariantViolation if f is FALSE, since no assignment exists.
func (e *Engine) GetSatisfyingAssignment(f Node) Solution {
	e.checkNode(f)
	if f == bddFalse {
		raise(InvariantViolation, "GetSatisfyingAssignment: node is never satisfied")
	}
	assignment := make(Solution, e.numVariables)
	n := f
	for n != bddTrue {
		lvl := e.topLevel(n)
		if e.lows[n] != bddFalse {
			assignment[lvl] = false
			n = e.lows[n]
		} else {
			assignment[lvl] = true
			n = e.highs[n]
		}
	}
	return assignment
}
