// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"testing"

	"pgregory.net/rapid"
)

// randomFormula draws a small boolean formula over variables 0..n-1, as a
// Node in e, exercising And/Or/Not/Imp in arbitrary combinations.
func randomFormula(t *rapid.T, e *Engine, n int32, depth int) Node {
	if depth <= 0 || rapid.Bool().Draw(t, "leaf") {
		v := rapid.Int32Range(0, n-1).Draw(t, "var")
		f := e.Variable(v)
		if rapid.Bool().Draw(t, "negate") {
			return e.Not(f)
		}
		return f
	}
	left := randomFormula(t, e, n, depth-1)
	right := randomFormula(t, e, n, depth-1)
	switch rapid.IntRange(0, 2).Draw(t, "op") {
	case 0:
		return e.And(left, right)
	case 1:
		return e.Or(left, right)
	default:
		return e.Imp(left, right)
	}
}

func TestDoubleNegationIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(4, WithInitialSize(1000))
		f := randomFormula(t, e, 4, 3)
		if !e.Equal(e.Not(e.Not(f)), f) {
			t.Fatalf("not(not(f)) != f for f=%d", f)
		}
	})
}

func TestDeMorgan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(4, WithInitialSize(1000))
		f := randomFormula(t, e, 4, 2)
		g := randomFormula(t, e, 4, 2)
		lhs := e.Not(e.And(f, g))
		rhs := e.Or(e.Not(f), e.Not(g))
		if !e.Equal(lhs, rhs) {
			t.Fatalf("not(f and g) != (not f) or (not g)")
		}
	})
}

func TestRecursiveAndIterativeAgree(t *testing.T) {
	rec := New(4)
	it := New(4, WithIterative(true))
	build := func(e *Engine) Node {
		a, b, c, d := e.Variable(0), e.Variable(1), e.Variable(2), e.Variable(3)
		return e.Ite(e.Or(a, b), e.And(c, e.Not(d)), e.Imp(c, d))
	}
	fr := build(rec)
	fi := build(it)
	if rec.CountSatisfyingAssignments(fr).Cmp(it.CountSatisfyingAssignments(fi)) != 0 {
		t.Fatalf("recursive and iterative evaluators disagree")
	}
}
