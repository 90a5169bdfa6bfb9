// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd_test

import (
	"fmt"
	"log"

	robdd "github.com/dalzilio/robdd"
)

// This example shows the basic usage of the package: create an engine,
// compute some expressions and report the result.
func Example_basic() {
	// Create a new engine with 6 variables and 10 000 node-table slots
	// (initially).
	e := robdd.New(6, robdd.WithInitialSize(10000))
	// n1 == x2 & x3 & x5
	n1 := e.And(e.Variable(2), e.Variable(3), e.Variable(5))
	// n2 == x1 | !x3 | x4
	n2 := e.Or(e.Variable(1), e.Not(e.Variable(3)), e.Variable(4))
	// n3 == exists x2,x3,x5 . (n1 & n2)
	q := e.VarSet(2, 3, 5)
	n3 := e.Exists(e.And(n1, n2), q)
	log.Print("\n" + e.Statistics())
	fmt.Printf("Number of satisfying assignments is %s\n", e.CountSatisfyingAssignments(n3))
	// Output:
	// Number of satisfying assignments is 48
}

// The following example uses ForEachPath to count the satisfying paths of a
// node, so that don't-care variables are not expanded into separate
// assignments.
func Example_forEachPath() {
	e := robdd.New(5)
	// n == exists x2,x3 . (x1 | !x3 | x4) & x3
	n := e.Exists(e.And(e.Or(e.Variable(1), e.Not(e.Variable(3)), e.Variable(4)), e.Variable(3)), e.VarSet(2, 3))
	acc := 0
	e.ForEachPath(n, func(profile []int8) bool {
		acc++
		return true
	})
	fmt.Printf("Number of satisfying assignments (without don't care) is %d", acc)
	// Output:
	// Number of satisfying assignments (without don't care) is 2
}

// The following example uses Support to report the set of variables a node
// actually depends on.
func Example_support() {
	e := robdd.New(5)
	n := e.Exists(e.And(e.Or(e.Variable(1), e.Not(e.Variable(3)), e.Variable(4)), e.Variable(3)), e.VarSet(2, 3))
	support := e.Support(n)
	fmt.Printf("Node depends on %d variable(s)\n", support.Cardinality())
	// Output:
	// Node depends on 2 variable(s)
}
