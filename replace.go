// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// RenameVariables implements whole-BDD variable permutation: a distinct
// operation from Compose, grounded on the same need (substituting
// variables) but restricted to a bijective renaming, which lets it skip
// Compose's general ite-combination step and its own cache line.

// VariableMap describes a renaming of variables, built once with
// NewVariableMap and reusable across any number of RenameVariables calls;
// every such call shares the same cache generation, so repeated renamings
// with the same map benefit from memoization across calls, not just within
// one.
type VariableMap struct {
	image []int32 // image[v] is the level v is renamed to
	last  int32   // highest level touched by this map; levels above it are never renamed
	gen   int64
}

// NewVariableMap builds a VariableMap substituting oldVars[k] with
// newVars[k] for every k. oldVars and newVars must have the same length,
// contain no duplicate within oldVars, and stay within [0, e.NumVariables()).
// A variable named in newVars must not also appear in oldVars, since the
// renaming would then be ambiguous.
func (e *Engine) NewVariableMap(oldVars, newVars []int32) *VariableMap {
	if len(oldVars) != len(newVars) {
		raise(InvariantViolation, "NewVariableMap: oldVars and newVars have different lengths (%d vs %d)", len(oldVars), len(newVars))
	}
	image := make([]int32, e.numVariables)
	for k := range image {
		image[k] = int32(k)
	}
	seen := make([]bool, e.numVariables)
	last := int32(-1)
	for k, v := range oldVars {
		if v < 0 || v >= e.numVariables {
			raise(InvalidNode, "NewVariableMap: variable %d in oldVars is out of range", v)
		}
		if seen[v] {
			raise(InvariantViolation, "NewVariableMap: duplicate variable %d in oldVars", v)
		}
		nv := newVars[k]
		if nv < 0 || nv >= e.numVariables {
			raise(InvalidNode, "NewVariableMap: variable %d in newVars is out of range", nv)
		}
		seen[v] = true
		image[v] = nv
		if v > last {
			last = v
		}
	}
	for _, v := range newVars {
		if image[v] != v {
			raise(InvariantViolation, "NewVariableMap: variable %d appears in both oldVars and newVars", v)
		}
	}
	return &VariableMap{image: image, last: last, gen: e.newGeneration()}
}

func (vm *VariableMap) at(level int32) (int32, bool) {
	if level > vm.last {
		return level, false
	}
	return vm.image[level], true
}

// RenameVariables returns f with every variable renamed according to vm.
func (e *Engine) RenameVariables(f Node, vm *VariableMap) Node {
	e.checkNode(f)
	e.PushToWorkStack(f)
	res := e.renameRecursive(f, vm)
	e.PopWorkStack(1)
	return res
}

func (e *Engine) renameRecursive(n Node, vm *VariableMap) Node {
	image, changed := vm.at(e.level(n))
	if !changed {
		return n
	}
	if res, ok := e.caches.generation.get(n, vm.gen, tagRename); ok {
		return res
	}
	lo := e.PushToWorkStack(e.renameRecursive(e.low(n), vm))
	hi := e.PushToWorkStack(e.renameRecursive(e.high(n), vm))
	res := e.correctify(image, lo, hi)
	e.PopWorkStack(2)
	e.caches.generation.put(n, vm.gen, tagRename, res)
	return res
}

// correctify rebuilds a node at level after its children were renamed,
// possibly out of order: a renaming is not required to preserve the
// relative order of variables below the node being rewritten, so the
// children may need their own levels interleaved with level.
func (e *Engine) correctify(level int32, low, high Node) Node {
	if level < e.level(low) && level < e.level(high) {
		return e.makeNode(level, low, high)
	}
	if level == e.level(low) || level == e.level(high) {
		raise(InvariantViolation, "renaming produced level %d colliding with a child's level", level)
	}
	if e.level(low) == e.level(high) {
		l := e.PushToWorkStack(e.correctify(level, e.low(low), e.low(high)))
		h := e.PushToWorkStack(e.correctify(level, e.high(low), e.high(high)))
		res := e.makeNode(e.level(low), l, h)
		e.PopWorkStack(2)
		return res
	}
	if e.level(low) < e.level(high) {
		l := e.PushToWorkStack(e.correctify(level, e.low(low), high))
		h := e.PushToWorkStack(e.correctify(level, e.high(low), high))
		res := e.makeNode(e.level(low), l, h)
		e.PopWorkStack(2)
		return res
	}
	l := e.PushToWorkStack(e.correctify(level, low, e.low(high)))
	h := e.PushToWorkStack(e.correctify(level, low, e.high(high)))
	res := e.makeNode(e.level(high), l, h)
	e.PopWorkStack(2)
	return res
}
