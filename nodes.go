// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// This file implements the node table: a set of flat, parallel arrays indexed
// by node id, together with a unique (hash-consing) table realized as an
// array of chain heads plus a per-node "next" link — the array-and-chain
// design of the BuDDy-flavoured unique table in the teacher's buddy.go and
// bkernel.go, as opposed to the alternative Go-runtime-hashmap design also
// present there (hudd.go/hkernel.go), which spec for this engine does not
// use.

// noFreeSlot marks the end of the node table's internal free list. It lives
// in the same namespace as table indices (never as a Node), so it cannot be
// confused with the leaf encoding in kernel.go.
const noFreeSlot int32 = -1

// emptyChain marks an unused unique-table bucket head.
const emptyChain int32 = -1

func (e *Engine) slotCount() int32 {
	return e.tableSize
}

// initTable allocates a fresh node table of the given size and rebuilds an
// empty unique table and free list over it. Every slot, starting at 0, is
// available to internal nodes (the variable nodes created by New take the
// first ones); the leaves never occupy a table slot, since they are encoded
// as negative Nodes.
func (e *Engine) initTable(size int32) {
	size = int32(primeGte(int(size)))
	e.tableSize = size
	e.vars = make([]int32, size)
	e.lows = make([]Node, size)
	e.highs = make([]Node, size)
	e.next = make([]int32, size)
	e.refs = make([]int32, size)
	e.used = make([]bool, size)
	e.mark = make([]bool, size)
	e.bucket = make([]int32, size)
	for k := range e.bucket {
		e.bucket[k] = emptyChain
	}
	for k := int32(0); k < size; k++ {
		if k == size-1 {
			e.next[k] = noFreeSlot
		} else {
			e.next[k] = k + 1
		}
	}
	e.freeList = 0
	e.freeCount = size
}

// lookupUnique searches the unique table for an existing node with the given
// (level, low, high) triplet, returning its id and true on a hit.
func (e *Engine) lookupUnique(level int32, low, high Node) (Node, bool) {
	h := nodeHash(level, low, high, int(e.tableSize))
	for idx := e.bucket[h]; idx != emptyChain; idx = e.next[idx] {
		if e.used[idx] && e.vars[idx] == level && e.lows[idx] == low && e.highs[idx] == high {
			return Node(idx), true
		}
	}
	return 0, false
}

// insertUnique links a freshly allocated slot into the unique table's hash
// chain for its triplet.
func (e *Engine) insertUnique(idx int32) {
	level := e.vars[idx]
	h := nodeHash(level, e.lows[idx], e.highs[idx], int(e.tableSize))
	e.next[idx] = e.bucket[h]
	e.bucket[h] = idx
}

// allocSlot pops a slot from the free list, running garbage collection and,
// if needed, growing the table first. The returned slot is not yet linked
// into the unique table.
func (e *Engine) allocSlot() int32 {
	if e.freeList == noFreeSlot {
		e.collectGarbage()
		if float64(e.freeCount)/float64(e.tableSize) <= e.cfg.growthThreshold {
			e.growTable()
		}
		if e.freeList == noFreeSlot {
			raise(ResourceExhausted, "no free node-table slot available after garbage collection and resize")
		}
	}
	idx := e.freeList
	e.freeList = e.next[idx]
	e.freeCount--
	return idx
}

// growTable doubles (or grows by cfg.growthFactor) the node table, preserving
// every live node and rebuilding the unique table's hash chains, since the
// table size, and so every hash value, changes.
func (e *Engine) growTable() {
	oldSize := e.tableSize
	newSize := int64(float64(oldSize) * e.cfg.growthFactor)
	if e.cfg.maxNodeIncrease > 0 && newSize-int64(oldSize) > int64(e.cfg.maxNodeIncrease) {
		newSize = int64(oldSize) + int64(e.cfg.maxNodeIncrease)
	}
	if newSize > int64(_MAXVAR) {
		newSize = int64(_MAXVAR)
	}
	if newSize <= int64(oldSize) {
		raise(ResourceExhausted, "node table already at its configured maximum size (%d slots)", oldSize)
	}
	size := int32(primeGte(int(newSize)))

	vars := make([]int32, size)
	lows := make([]Node, size)
	highs := make([]Node, size)
	next := make([]int32, size)
	refs := make([]int32, size)
	used := make([]bool, size)
	mark := make([]bool, size)
	copy(vars, e.vars)
	copy(lows, e.lows)
	copy(highs, e.highs)
	copy(refs, e.refs)
	copy(used, e.used)
	copy(mark, e.mark)

	e.vars, e.lows, e.highs, e.next, e.refs, e.used, e.mark = vars, lows, highs, next, refs, used, mark
	e.tableSize = size
	e.bucket = make([]int32, size)
	for k := range e.bucket {
		e.bucket[k] = emptyChain
	}

	e.freeList = noFreeSlot
	e.freeCount = 0
	for idx := size - 1; idx >= 0; idx-- {
		if idx < oldSize && e.used[idx] {
			e.insertUnique(idx)
			continue
		}
		e.used[idx] = false
		e.next[idx] = e.freeList
		e.freeList = idx
		e.freeCount++
	}
	e.resizeCaches()
	e.gcCount++ // a resize invalidates caches just like a collection does
}

// makeNode returns the canonical node for (level, low, high), applying the
// reducedness rule (a node whose two children are identical is redundant and
// collapses to that child, invariant 3 in the data model) and enforcing the
// variable-ordering invariant on internal children (invariant 2).
func (e *Engine) makeNode(level int32, low, high Node) Node {
	if low == high {
		return low
	}
	if !low.isLeaf() && e.vars[low] <= level {
		raise(OrderViolation, "low child at level %d is not below level %d", e.vars[low], level)
	}
	if !high.isLeaf() && e.vars[high] <= level {
		raise(OrderViolation, "high child at level %d is not below level %d", e.vars[high], level)
	}
	if res, ok := e.lookupUnique(level, low, high); ok {
		return res
	}
	idx := e.allocSlot()
	e.vars[idx] = level
	e.lows[idx] = low
	e.highs[idx] = high
	e.refs[idx] = 0
	e.used[idx] = true
	e.insertUnique(idx)
	e.produced++
	return Node(idx)
}

// low and high return the children of an internal node, following the leaf
// directly when n is already a leaf (leaves are their own fixed point).
func (e *Engine) low(n Node) Node {
	if n.isLeaf() {
		return n
	}
	return e.lows[n]
}

func (e *Engine) high(n Node) Node {
	if n.isLeaf() {
		return n
	}
	return e.highs[n]
}

// level returns the variable level of n, or _MAXVAR+1 for a leaf so that
// leaves always sort after every internal node in level comparisons, which
// is how Shannon-expansion recursion in operations.go terminates.
func (e *Engine) level(n Node) int32 {
	if n.isLeaf() {
		return _MAXVAR + 1
	}
	return e.vars[n]
}

// checkNode panics with an InvalidNode fault unless n is a leaf or a live,
// in-range slot of the node table.
func (e *Engine) checkNode(n Node) {
	if n.isLeaf() {
		return
	}
	if n < 0 || int32(n) >= e.tableSize || !e.used[n] {
		raise(InvalidNode, "node %d does not refer to a live slot", n)
	}
}
