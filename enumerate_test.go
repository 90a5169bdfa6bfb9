// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"math/big"
	"testing"
)

func TestCountSatisfyingAssignments(t *testing.T) {
	e := New(3)
	a, b := e.Variable(0), e.Variable(1)
	f := e.Or(a, b) // depends on 2 of 3 variables: 3 satisfying pairs * 2 free
	got := e.CountSatisfyingAssignments(f)
	if got.Cmp(big.NewInt(6)) != 0 {
		t.Errorf("expected 6 satisfying assignments, got %s", got)
	}
}

func TestCountSatisfyingAssignmentsOverSupport(t *testing.T) {
	e := New(3)
	a, b := e.Variable(0), e.Variable(1)
	f := e.Or(a, b)
	support := e.VarSet(0, 1)
	got := e.CountSatisfyingAssignmentsOver(f, support)
	if got.Cmp(big.NewInt(3)) != 0 {
		t.Errorf("expected 3 satisfying assignments over {a,b}, got %s", got)
	}
}

func TestGetSatisfyingAssignmentSatisfiesNode(t *testing.T) {
	e := New(4)
	f := e.Reference(e.And(e.Variable(0), e.Not(e.Variable(1)), e.Or(e.Variable(2), e.Variable(3))))
	assignment := e.GetSatisfyingAssignment(f)
	n := e.True()
	for v, val := range assignment {
		if val {
			n = e.And(n, e.Variable(int32(v)))
		} else {
			n = e.And(n, e.Not(e.Variable(int32(v))))
		}
	}
	if !e.Implies(n, f) {
		t.Errorf("assignment %v does not satisfy %v", assignment, f)
	}
}

func TestGetSatisfyingAssignmentOnFalsePanics(t *testing.T) {
	e := New(2)
	defer func() {
		f, ok := recover().(*Fault)
		if !ok || f.Kind != InvariantViolation {
			t.Errorf("expected an InvariantViolation fault, got %v", recover())
		}
	}()
	e.GetSatisfyingAssignment(e.False())
}

func TestSolutionIteratorExhausts(t *testing.T) {
	e := New(2)
	f := e.Or(e.Variable(0), e.Variable(1))
	it := e.SolutionIterator(f)
	count := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 solutions from the iterator, got %d", count)
	}
	if _, ok := it.Next(); ok {
		t.Errorf("iterator should stay exhausted once drained")
	}
}
