// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import "testing"

// TestGCReclaimsDeadNodes stresses garbage collection with a deliberately
// tiny node table: most of the intermediate nodes built on each iteration are
// never referenced, so allocSlot must collect them to make room.
// WithMaxNodeIncrease(0) leaves resizes unbounded, so the table may also
// grow; the test checks that collections run and the table stays well formed.
func TestGCReclaimsDeadNodes(t *testing.T) {
	e := New(6, WithInitialSize(20), WithMaxNodeIncrease(0))
	vars := make([]Node, 6)
	for i := range vars {
		vars[i] = e.Variable(int32(i))
	}
	before := e.gcCount
	for i := 0; i < 2000; i++ {
		// Build a distinct, never-referenced formula each iteration: none of
		// its intermediate nodes survive past this statement, so the tiny
		// table fills with garbage that a collection can reclaim.
		f := vars[i%6]
		for k, v := range vars {
			if (i+k)%3 == 0 {
				f = e.And(f, v)
			} else {
				f = e.Or(f, e.Not(v))
			}
		}
		_ = f
	}
	if e.gcCount <= before {
		t.Errorf("expected garbage collection to run at least once, ran %d times", e.gcCount-before)
	}
	e.Check()
}

func TestForceGCPreservesLiveNodes(t *testing.T) {
	e := New(3)
	f := e.Reference(e.And(e.Variable(0), e.Variable(1)))
	e.ForceGC()
	if !e.isSaturated(e.Variable(0)) {
		t.Errorf("variable nodes must stay saturated across a collection")
	}
	if e.ReferenceCount(f) != 1 {
		t.Errorf("a referenced node must survive a collection")
	}
	e.Check()
}

func TestForceGCReturnsReclaimedCount(t *testing.T) {
	e := New(3)
	kept := e.Reference(e.And(e.Variable(0), e.Variable(1)))
	e.And(e.Variable(1), e.Variable(2)) // built, never referenced: garbage
	reclaimed := e.ForceGC()
	if reclaimed < 1 {
		t.Errorf("expected at least one reclaimed node, got %d", reclaimed)
	}
	if e.ReferenceCount(kept) != 1 {
		t.Errorf("a referenced node must not be among the reclaimed ones")
	}
	// a second collection with nothing new built should reclaim nothing.
	if again := e.ForceGC(); again != 0 {
		t.Errorf("expected a second collection with no new garbage to reclaim 0, got %d", again)
	}
}

func TestGrowTableRespectsMaxIncrease(t *testing.T) {
	e := New(2, WithInitialSize(5), WithMaxNodeIncrease(3))
	before := e.tableSize
	e.growTable()
	if e.tableSize-before > int32(10) {
		t.Errorf("growTable grew by more than a small multiple of maxNodeIncrease: %d -> %d", before, e.tableSize)
	}
}
