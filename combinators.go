// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

// And returns the conjunction of a sequence of nodes, right-folded so that
// And() is TRUE and And(n) is n.
func (e *Engine) And(n ...Node) Node {
	switch len(n) {
	case 0:
		return e.True()
	case 1:
		return n[0]
	}
	return e.Apply(n[0], e.And(n[1:]...), OPand)
}

// Or returns the disjunction of a sequence of nodes, right-folded so that
// Or() is FALSE and Or(n) is n.
func (e *Engine) Or(n ...Node) Node {
	switch len(n) {
	case 0:
		return e.False()
	case 1:
		return n[0]
	}
	return e.Apply(n[0], e.Or(n[1:]...), OPor)
}

// Imp returns the material implication f ⇒ g as a node (as opposed to
// Implies, which tests the same relation and returns a bool).
func (e *Engine) Imp(f, g Node) Node {
	return e.Apply(f, g, OPimp)
}

// Equiv returns the bi-implication (if and only if) of f and g.
func (e *Engine) Equiv(f, g Node) Node {
	return e.Apply(f, g, OPbiimp)
}

// Equal reports whether f and g denote the same node, i.e. the same Boolean
// function, since the node table is canonical.
func (e *Engine) Equal(f, g Node) bool {
	return f == g
}

// FromBool returns the constant TRUE or FALSE node corresponding to v.
func (e *Engine) FromBool(v bool) Node {
	if v {
		return e.True()
	}
	return e.False()
}
