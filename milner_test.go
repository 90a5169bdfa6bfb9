// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"math/big"
	"testing"

	"github.com/bits-and-blooms/bitset"
)

// milner computes the reachable state space of a system of varnum cyclers
// communicating over a ring, directly adapted from the Buddy distribution's
// example of the same name. Each cycler contributes three boolean variables
// (c, t, h) plus their primed counterparts, interleaved so that variable 2k
// is the unprimed half of pair k and 2k+1 its primed half. The reachable
// state count is known analytically: varnum * 2^(4*varnum+1).
//
// Every accumulator that lives across more than one statement (I, T, R, prev
// and the per-cycler p1/p2/edge terms, plus unchanged's own running
// conjunction) is explicitly referenced while it is being grown and
// dereferenced the instant it is folded into its successor: allocSlot runs a
// collection whenever the free list empties, and an accumulator sitting at a
// zero reference count between two statements is fair game for that
// collection even though the caller still needs it.
func milner(tb testing.TB, varnum int, options ...ConfigOption) (*Engine, Node) {
	e := New(varnum*6, options...)
	c := make([]Node, varnum)
	cp := make([]Node, varnum)
	t := make([]Node, varnum)
	tp := make([]Node, varnum)
	h := make([]Node, varnum)
	hp := make([]Node, varnum)

	for n := 0; n < varnum; n++ {
		c[n] = e.Variable(int32(n * 6))
		cp[n] = e.Variable(int32(n*6 + 1))
		t[n] = e.Variable(int32(n*6 + 2))
		tp[n] = e.Variable(int32(n*6 + 3))
		h[n] = e.Variable(int32(n*6 + 4))
		hp[n] = e.Variable(int32(n*6 + 5))
	}

	unprimedVars := make([]int32, varnum*3)
	primedVars := make([]int32, varnum*3)
	unprimed := bitset.New(uint(varnum * 6))
	for n := 0; n < varnum*3; n++ {
		unprimedVars[n] = int32(n * 2)
		primedVars[n] = int32(n*2 + 1)
		unprimed.Set(uint(n * 2))
	}
	// vm substitutes a primed variable with its unprimed counterpart, turning
	// an image computed over next-state variables back into a set of states.
	vm := e.NewVariableMap(primedVars, unprimedVars)

	// set replaces *dst with v, referencing v before dereferencing the old
	// value.
	set := func(dst *Node, v Node) {
		e.Reference(v)
		e.Dereference(*dst)
		*dst = v
	}

	I := e.Reference(e.And(c[0], e.Not(h[0]), e.Not(t[0])))
	for i := 1; i < varnum; i++ {
		set(&I, e.And(I, e.Not(c[i]), e.Not(h[i]), e.Not(t[i])))
	}

	// unchanged asserts that every cycler but z keeps the same state across a
	// transition. The returned node is referenced: the caller owns that
	// reference and must Dereference it once consumed.
	unchanged := func(x, y []Node, z int) Node {
		res := e.Reference(e.True())
		for i := 0; i < varnum; i++ {
			if i != z {
				set(&res, e.And(res, e.Equiv(x[i], y[i])))
			}
		}
		return res
	}

	T := e.Reference(e.False())
	for i := 0; i < varnum; i++ {
		uc1, ut1, uh1 := unchanged(c, cp, i), unchanged(t, tp, i), unchanged(h, hp, i)
		p1 := e.Reference(e.And(c[i], e.Not(cp[i]), tp[i], e.Not(t[i]), hp[i], uc1, ut1, uh1))
		e.Dereference(uc1)
		e.Dereference(ut1)
		e.Dereference(uh1)

		uc2, uh2, ut2 := unchanged(c, cp, (i+1)%varnum), unchanged(h, hp, i), unchanged(t, tp, varnum)
		p2 := e.Reference(e.And(h[i], e.Not(hp[i]), cp[(i+1)%varnum], uc2, uh2, ut2))
		e.Dereference(uc2)
		e.Dereference(uh2)
		e.Dereference(ut2)

		ut3, uh3, uc3 := unchanged(t, tp, i), unchanged(h, hp, varnum), unchanged(c, cp, varnum)
		edge := e.Reference(e.And(t[i], e.Not(tp[i]), ut3, uh3, uc3))
		e.Dereference(ut3)
		e.Dereference(uh3)
		e.Dereference(uc3)

		set(&T, e.Or(T, p1, p2, edge))
		e.Dereference(p1)
		e.Dereference(p2)
		e.Dereference(edge)
	}

	// R takes over I's reference; there is no separate Dereference(I) because
	// R and I name the same node and that single reference now belongs to R.
	R := I
	for {
		prev := e.Reference(R)
		image := e.Reference(e.Exists(e.And(R, T), unprimed))
		set(&R, e.Or(R, e.RenameVariables(image, vm)))
		e.Dereference(image)
		stop := e.Equal(prev, R)
		e.Dereference(prev)
		if stop {
			break
		}
	}
	e.Dereference(T)
	if _LOGLEVEL > 0 {
		tb.Log("\n", e.Statistics())
	}
	return e, R
}

func TestMilnerSmall(t *testing.T) {
	for _, n := range []int{4, 5, 7, 11} {
		e, r := milner(t, n, WithInitialSize(100))
		expected := big.NewInt(int64(n))
		pow := new(big.Int)
		pow.SetBit(pow, 4*n+1, 1)
		expected.Mul(expected, pow)
		actual := e.CountSatisfyingAssignments(r)
		if actual.Cmp(expected) != 0 {
			t.Errorf("Milner(%d): expected %s reachable states, got %s", n, expected, actual)
		}
	}
}

func BenchmarkMilner30(b *testing.B) {
	for n := 0; n < b.N; n++ {
		milner(b, 30, WithInitialSize(100000))
	}
}
