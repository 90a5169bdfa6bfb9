// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package robdd implements Reduced Ordered Binary Decision Diagrams (ROBDD), a
data structure used to represent Boolean functions over a fixed set of
variables, or equivalently sets of Boolean vectors of fixed size, as a
directed acyclic graph with maximal sharing of isomorphic sub-graphs.

Basics

An Engine owns a set of variables, declared when it is created with New (more
can be appended at the end of the order with CreateVariable), each
represented by an index (a level) in the interval [0..numVariables).
Operations over the engine return a Node, an opaque handle to a vertex in the
graph. The two leaves, accessible with Engine.True and Engine.False, denote the
constant functions.

Memory model

Unlike a garbage-collected object facade, this engine manages its own node
table explicitly: nodes gain and lose references under the caller's control
(Reference/Dereference), and reclamation happens during an explicit mark and
sweep pass triggered from inside node creation. There is no implicit
finalization. Callers that need to protect a node under construction push it
on the work stack (PushToWorkStack) rather than relying on a local reference.

Use of build tags

Like its ancestor, the engine can be compiled with the debug build tag to
turn on logging to standard output; the engine logs the creation of each
Engine (its variable count and initial table size).
*/
package robdd
