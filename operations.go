// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import "github.com/bits-and-blooms/bitset"

// This file implements the native-recursion Shannon-expansion algorithms:
// not, apply, ite, compose, restrict, exists/forall and implies. Each public
// entry point validates its operands; every one except Implies, which builds
// no node, pins them on the work stack for the duration of the call. Not,
// Apply and Ite dispatch to either this recursive form or the
// explicit-work-stack form in iterative.go, according to cfg.iterative.
// Compose, restrict, exists, forall and implies are native Go recursions in
// every configuration. Compose combines through ite and exists/forall through
// apply, so those steps honor cfg.iterative; restrict builds its result with
// makeNode alone and implies only combines booleans.

// childrenAt returns the (low, high) pair of n as seen from level v: n's own
// children if n is labelled v, or (n, n) unchanged if n is labelled below v
// (the standard "don't care yet" trick of Shannon expansion over several
// operands at once).
func (e *Engine) childrenAt(n Node, v int32) (Node, Node) {
	if e.level(n) != v {
		return n, n
	}
	return e.low(n), e.high(n)
}

func min2(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func min3(a, b, c int32) int32 {
	return min2(a, min2(b, c))
}

// Not returns the negation of n.
func (e *Engine) Not(n Node) Node {
	e.checkNode(n)
	e.PushToWorkStack(n)
	res := e.not(n)
	e.PopWorkStack(1)
	return res
}

func (e *Engine) not(n Node) Node {
	if e.cfg.iterative {
		return e.notIterative(n)
	}
	return e.notRecursive(n)
}

func (e *Engine) notRecursive(n Node) Node {
	if n == bddFalse {
		return bddTrue
	}
	if n == bddTrue {
		return bddFalse
	}
	if res, ok := e.caches.negation.get(n); ok {
		return res
	}
	low := e.PushToWorkStack(e.notRecursive(e.low(n)))
	high := e.PushToWorkStack(e.notRecursive(e.high(n)))
	res := e.makeNode(e.level(n), low, high)
	e.PopWorkStack(2)
	e.caches.negation.put(n, res)
	return res
}

// leafBit returns 0 for FALSE and 1 for TRUE; it must not be called on an
// internal node.
func leafBit(n Node) int {
	if n == bddTrue {
		return 1
	}
	return 0
}

func leafOf(bit int) Node {
	if bit == 1 {
		return bddTrue
	}
	return bddFalse
}

// binaryShortcut applies the operator-specific identities from the truth
// table of op (e.g. and(x,FALSE)=FALSE) without touching the cache or the
// node table. It reports ok=false when no shortcut applies and the general
// Shannon expansion must run.
func binaryShortcut(op Operator, left, right Node) (Node, bool) {
	switch op {
	case OPand:
		switch {
		case left == right:
			return left, true
		case left == bddFalse || right == bddFalse:
			return bddFalse, true
		case left == bddTrue:
			return right, true
		case right == bddTrue:
			return left, true
		}
	case OPor:
		switch {
		case left == right:
			return left, true
		case left == bddTrue || right == bddTrue:
			return bddTrue, true
		case left == bddFalse:
			return right, true
		case right == bddFalse:
			return left, true
		}
	case OPxor:
		switch {
		case left == right:
			return bddFalse, true
		case left == bddFalse:
			return right, true
		case right == bddFalse:
			return left, true
		}
	case OPnand:
		if left == bddFalse || right == bddFalse {
			return bddTrue, true
		}
	case OPnor:
		if left == bddTrue || right == bddTrue {
			return bddFalse, true
		}
	case OPimp:
		switch {
		case left == bddFalse:
			return bddTrue, true
		case left == bddTrue:
			return right, true
		case right == bddTrue:
			return bddTrue, true
		case left == right:
			return bddTrue, true
		}
	case OPbiimp:
		switch {
		case left == right:
			return bddTrue, true
		case left == bddTrue:
			return right, true
		case right == bddTrue:
			return left, true
		}
	case OPdiff:
		switch {
		case left == right:
			return bddFalse, true
		case right == bddTrue:
			return bddFalse, true
		case left == bddFalse:
			return bddFalse, true
		}
	case OPless:
		switch {
		case left == right || left == bddTrue:
			return bddFalse, true
		case left == bddFalse:
			return right, true
		}
	case OPinvimp:
		switch {
		case right == bddFalse:
			return bddTrue, true
		case right == bddTrue:
			return left, true
		case left == bddTrue:
			return bddTrue, true
		case left == right:
			return bddTrue, true
		}
	default:
		raise(InvariantViolation, "operator %s cannot be used with Apply", op)
	}
	if left.isLeaf() && right.isLeaf() {
		return leafOf(opres[op][leafBit(left)][leafBit(right)]), true
	}
	return 0, false
}

// Apply computes the result of the binary boolean connective op applied to
// left and right.
func (e *Engine) Apply(left, right Node, op Operator) Node {
	e.checkNode(left)
	e.checkNode(right)
	e.PushToWorkStack(left)
	e.PushToWorkStack(right)
	res := e.applyOp(left, right, op)
	e.PopWorkStack(2)
	return res
}

func (e *Engine) applyOp(left, right Node, op Operator) Node {
	if e.cfg.iterative {
		return e.applyIterative(left, right, op)
	}
	return e.applyRecursive(left, right, op)
}

func (e *Engine) applyRecursive(left, right Node, op Operator) Node {
	if res, ok := binaryShortcut(op, left, right); ok {
		return res
	}
	if res, ok := e.caches.binary.get(left, right, op); ok {
		return res
	}
	v := min2(e.level(left), e.level(right))
	fl, fh := e.childrenAt(left, v)
	gl, gh := e.childrenAt(right, v)
	lo := e.PushToWorkStack(e.applyRecursive(fl, gl, op))
	hi := e.PushToWorkStack(e.applyRecursive(fh, gh, op))
	res := e.makeNode(v, lo, hi)
	e.PopWorkStack(2)
	e.caches.binary.put(left, right, op, res)
	return res
}

// Ite computes the if-then-else of (f, g, h): (f∧g) ∨ (¬f∧h).
func (e *Engine) Ite(f, g, h Node) Node {
	e.checkNode(f)
	e.checkNode(g)
	e.checkNode(h)
	e.PushToWorkStack(f)
	e.PushToWorkStack(g)
	e.PushToWorkStack(h)
	res := e.iteOp(f, g, h)
	e.PopWorkStack(3)
	return res
}

func (e *Engine) iteOp(f, g, h Node) Node {
	if e.cfg.iterative {
		return e.iteIterative(f, g, h)
	}
	return e.iteRecursive(f, g, h)
}

func (e *Engine) iteRecursive(f, g, h Node) Node {
	switch {
	case f == bddTrue:
		return g
	case f == bddFalse:
		return h
	case g == h:
		return g
	case g == bddTrue && h == bddFalse:
		return f
	case g == bddFalse && h == bddTrue:
		return e.not(f)
	}
	if res, ok := e.caches.ite.get(f, g, h); ok {
		return res
	}
	v := min3(e.level(f), e.level(g), e.level(h))
	fl, fh := e.childrenAt(f, v)
	gl, gh := e.childrenAt(g, v)
	hl, hh := e.childrenAt(h, v)
	lo := e.PushToWorkStack(e.iteRecursive(fl, gl, hl))
	hi := e.PushToWorkStack(e.iteRecursive(fh, gh, hh))
	res := e.makeNode(v, lo, hi)
	e.PopWorkStack(2)
	e.caches.ite.put(f, g, h, res)
	return res
}

// Implies tests whether every satisfying assignment of f also satisfies g,
// without materialising the implication as a node.
func (e *Engine) Implies(f, g Node) bool {
	e.checkNode(f)
	e.checkNode(g)
	return e.impliesRecursive(f, g)
}

func (e *Engine) impliesRecursive(f, g Node) bool {
	switch {
	case f == bddFalse || g == bddTrue:
		return true
	case g == bddFalse:
		return f == bddFalse
	case f == g:
		return true
	}
	if res, ok := e.caches.implies.get(f, g); ok {
		return res
	}
	v := min2(e.level(f), e.level(g))
	fl, fh := e.childrenAt(f, v)
	gl, gh := e.childrenAt(g, v)
	res := e.impliesRecursive(fl, gl) && e.impliesRecursive(fh, gh)
	e.caches.implies.put(f, g, res)
	return res
}

// Compose performs simultaneous substitution of the variables of f according
// to subst: subst[v] is the node substituted for variable v, or
// e.Placeholder() to leave v unchanged. A shorter slice is interpreted as
// placeholders for every omitted trailing variable.
func (e *Engine) Compose(f Node, subst []Node) Node {
	e.checkNode(f)
	for _, s := range subst {
		if s != bddPlaceholder {
			e.checkNode(s)
		}
	}
	e.PushToWorkStack(f)
	gen := e.newGeneration()
	res := e.composeRecursive(f, subst, gen)
	e.PopWorkStack(1)
	return res
}

func (e *Engine) composeRecursive(n Node, subst []Node, gen int64) Node {
	if n.isLeaf() {
		return n
	}
	if res, ok := e.caches.generation.get(n, gen, tagCompose); ok {
		return res
	}
	lvl := e.level(n)
	lo := e.PushToWorkStack(e.composeRecursive(e.low(n), subst, gen))
	hi := e.PushToWorkStack(e.composeRecursive(e.high(n), subst, gen))
	image := bddPlaceholder
	if int(lvl) < len(subst) {
		image = subst[lvl]
	}
	var res Node
	if image == bddPlaceholder {
		res = e.makeNode(lvl, lo, hi)
	} else {
		res = e.iteOp(image, hi, lo)
	}
	e.PopWorkStack(2)
	e.caches.generation.put(n, gen, tagCompose, res)
	return res
}

// Restrict constant-propagates every variable set in vars to the
// corresponding bit in values, returning a node whose support is disjoint
// from vars.
func (e *Engine) Restrict(f Node, vars, values *bitset.BitSet) Node {
	e.checkNode(f)
	if vars == nil || vars.None() {
		return f
	}
	e.PushToWorkStack(f)
	gen := e.newGeneration()
	res := e.restrictRecursive(f, vars, values, gen)
	e.PopWorkStack(1)
	return res
}

func (e *Engine) restrictRecursive(n Node, vars, values *bitset.BitSet, gen int64) Node {
	if n.isLeaf() {
		return n
	}
	lvl := e.level(n)
	if vars.Test(uint(lvl)) {
		if values.Test(uint(lvl)) {
			return e.restrictRecursive(e.high(n), vars, values, gen)
		}
		return e.restrictRecursive(e.low(n), vars, values, gen)
	}
	if res, ok := e.caches.generation.get(n, gen, tagRestrict); ok {
		return res
	}
	lo := e.PushToWorkStack(e.restrictRecursive(e.low(n), vars, values, gen))
	hi := e.PushToWorkStack(e.restrictRecursive(e.high(n), vars, values, gen))
	res := e.makeNode(lvl, lo, hi)
	e.PopWorkStack(2)
	e.caches.generation.put(n, gen, tagRestrict, res)
	return res
}

// Exists computes the existential quantification of f over the variables
// set in q.
func (e *Engine) Exists(f Node, q *bitset.BitSet) Node {
	return e.quantify(f, q, tagExists, OPor)
}

// Forall computes the universal quantification of f over the variables set
// in q.
func (e *Engine) Forall(f Node, q *bitset.BitSet) Node {
	return e.quantify(f, q, tagForall, OPand)
}

func (e *Engine) quantify(f Node, q *bitset.BitSet, tag generationTag, combine Operator) Node {
	e.checkNode(f)
	if q == nil || q.None() {
		return f
	}
	e.PushToWorkStack(f)
	gen := e.newGeneration()
	res := e.quantifyRecursive(f, q, tag, combine, gen)
	e.PopWorkStack(1)
	return res
}

func (e *Engine) quantifyRecursive(n Node, q *bitset.BitSet, tag generationTag, combine Operator, gen int64) Node {
	if n.isLeaf() {
		return n
	}
	if res, ok := e.caches.generation.get(n, gen, tag); ok {
		return res
	}
	lvl := e.level(n)
	lo := e.PushToWorkStack(e.quantifyRecursive(e.low(n), q, tag, combine, gen))
	hi := e.PushToWorkStack(e.quantifyRecursive(e.high(n), q, tag, combine, gen))
	var res Node
	if q.Test(uint(lvl)) {
		res = e.applyOp(lo, hi, combine)
	} else {
		res = e.makeNode(lvl, lo, hi)
	}
	e.PopWorkStack(2)
	e.caches.generation.put(n, gen, tag, res)
	return res
}
