// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// This file implements manual reference counting and mark-and-sweep garbage
// collection, grounded on the AddRef/DelRef/gbc/markrec quartet in the
// teacher's gc.go. Unlike the teacher's current generation (bdd.go, buddy.go,
// hudd.go), which hides reference counting behind Go finalizers on an
// exported *int handle, this engine exposes reference counting directly:
// there is no object facade and no finalizer.

// Reference increases the reference count of n and returns n unchanged, so
// that calls can be chained. Leaves and nodes already at the saturation
// ceiling are left untouched. On a leaf or a live node this call never
// fails; any other Node raises InvalidNode.
func (e *Engine) Reference(n Node) Node {
	e.checkNode(n)
	if n.isLeaf() {
		return n
	}
	if e.refs[n] < _MAXREFCOUNT {
		if e.refs[n] == 0 {
			e.deadApprox--
		}
		e.refs[n]++
	}
	return n
}

// Dereference decreases the reference count of n and returns n unchanged.
// Calling Dereference on a node whose count is already zero is a fatal
// ReferenceUnderflow: it signals a bug in the caller's bookkeeping, not a
// recoverable condition.
func (e *Engine) Dereference(n Node) Node {
	e.checkNode(n)
	if n.isLeaf() {
		return n
	}
	if e.refs[n] >= _MAXREFCOUNT {
		// saturated (e.g. a permanent variable node): never decremented
		return n
	}
	if e.refs[n] == 0 {
		raise(ReferenceUnderflow, "dereference of node %d with a zero reference count", n)
	}
	e.refs[n]--
	if e.refs[n] == 0 {
		e.deadApprox++
	}
	return n
}

// ReferenceCount returns the current reference count of n. Leaves report the
// saturation ceiling, since they are always considered live.
func (e *Engine) ReferenceCount(n Node) int32 {
	if n.isLeaf() {
		return _MAXREFCOUNT
	}
	e.checkNode(n)
	return e.refs[n]
}

// saturate pins n permanently, as is done for every variable node: once
// saturated a node's count never reaches zero again, so it survives every
// future collection without the caller needing to hold an explicit
// reference.
func (e *Engine) saturate(n Node) {
	if n.isLeaf() {
		return
	}
	e.refs[n] = _MAXREFCOUNT
}

// isSaturated reports whether n's reference count has reached the ceiling.
func (e *Engine) isSaturated(n Node) bool {
	if n.isLeaf() {
		return true
	}
	return e.refs[n] >= _MAXREFCOUNT
}

// *************************************************************************
// Work stack: an ephemeral, client-visible root set used to protect nodes
// being assembled by a computation (internal or external) from an
// in-progress garbage collection. Unlike the teacher's refstack, this stack
// is not reset at the start of each public operation: client code and the
// internal recursive algorithms share the same LIFO, so a collection
// triggered deep inside one call can never endanger a node an outer,
// still-pending call has pinned here.

// PushToWorkStack pins n against collection until a matching PopWorkStack,
// and returns n so calls can be chained.
func (e *Engine) PushToWorkStack(n Node) Node {
	e.checkNode(n)
	e.workStack = append(e.workStack, n)
	return n
}

// PopWorkStack removes the last count entries pushed to the work stack.
func (e *Engine) PopWorkStack(count int) {
	e.workStack = e.workStack[:len(e.workStack)-count]
}

// *************************************************************************
// Mark and sweep garbage collection.

// ForceGC runs a collection immediately, outside of the implicit trigger
// inside makeNode, and returns the number of nodes it reclaimed.
func (e *Engine) ForceGC() int {
	return e.collectGarbage()
}

// collectGarbage returns the number of table slots it reclaimed: nodes that
// were in use before the sweep and did not get marked live by it.
func (e *Engine) collectGarbage() int {
	e.gcCount++
	for idx := range e.mark {
		e.mark[idx] = false
	}
	for idx, used := range e.used {
		if used && e.refs[idx] > 0 {
			e.markrec(Node(idx))
		}
	}
	for _, n := range e.workStack {
		e.markrec(n)
	}
	for k := range e.bucket {
		e.bucket[k] = emptyChain
	}
	e.freeList = noFreeSlot
	e.freeCount = 0
	reclaimed := 0
	for idx := e.tableSize - 1; idx >= 0; idx-- {
		if e.used[idx] && e.mark[idx] {
			e.mark[idx] = false
			e.insertUnique(idx)
			continue
		}
		if e.used[idx] {
			reclaimed++
		}
		e.used[idx] = false
		e.next[idx] = e.freeList
		e.freeList = idx
		e.freeCount++
	}
	e.deadApprox = 0
	e.resetCaches()
	return reclaimed
}

func (e *Engine) markrec(n Node) {
	if n.isLeaf() || !e.used[n] || e.mark[n] {
		return
	}
	e.mark[n] = true
	e.markrec(e.lows[n])
	e.markrec(e.highs[n])
}
