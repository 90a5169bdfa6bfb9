// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import "log"

// Engine is a self-contained ROBDD factory: a node table, its unique table,
// a manual-refcount memory manager, operation caches, and the variable
// nodes created for it. Engines never share node ids: mixing a Node
// produced by one Engine into a call on another is a programming error this
// package makes no attempt to detect.
//
// An Engine is not safe for concurrent use. Every exported method must run
// to completion before another is invoked on the same Engine.
type Engine struct {
	cfg *configs

	tableSize int32
	vars      []int32
	lows      []Node
	highs     []Node
	next      []int32
	refs      []int32
	used      []bool
	mark      []bool
	bucket    []int32

	freeList  int32
	freeCount int

	produced int64
	gcCount  int64

	deadApprox int
	workStack  []Node

	caches allCaches

	numVariables int32
	varNodes     [][2]Node // varNodes[v] = {node for v, node for ¬v}
}

// New creates an Engine with numVariables variables, numbered 0 to
// numVariables-1 in the fixed total order they are created in. Options tune
// the node-table and cache sizing and select the recursive or iterative
// operation evaluator; see WithIterative, WithInitialSize and the other
// ConfigOption constructors in config.go.
func New(numVariables int, options ...ConfigOption) *Engine {
	if numVariables < 0 || numVariables > int(_MAXVAR) {
		raise(InvariantViolation, "bad number of variables (%d)", numVariables)
	}
	cfg := makeconfigs(numVariables)
	for _, opt := range options {
		opt(cfg)
	}
	e := &Engine{cfg: cfg}
	e.initTable(int32(cfg.initialSize))
	e.initCaches()
	e.workStack = make([]Node, 0, 2*numVariables+4)
	e.varNodes = make([][2]Node, 0, numVariables)
	e.growVariables(numVariables)
	if _LOGLEVEL > 0 {
		log.Printf("new engine: %d variables, %d initial slots\n", numVariables, e.tableSize)
	}
	return e
}

// growVariables appends num freshly created, saturated variable nodes to the
// engine's variable order, each placed at the next available level.
func (e *Engine) growVariables(num int) {
	for k := 0; k < num; k++ {
		level := e.numVariables
		v0 := e.makeNode(level, bddFalse, bddTrue)
		e.saturate(v0)
		v1 := e.makeNode(level, bddTrue, bddFalse)
		e.saturate(v1)
		e.varNodes = append(e.varNodes, [2]Node{v0, v1})
		e.numVariables++
	}
}

// CreateVariable appends one new variable after every variable created so
// far, at the bottom of the fixed variable order, and returns the node that
// represents it (the function that is true exactly when the variable is
// true).
func (e *Engine) CreateVariable() Node {
	if e.numVariables >= _MAXVAR {
		raise(ResourceExhausted, "cannot create another variable: the engine already has the maximum of %d", _MAXVAR)
	}
	e.growVariables(1)
	// cached satisfaction counts were computed for the previous variable count
	e.caches.satisfaction.reset()
	return e.varNodes[e.numVariables-1][0]
}

// NumVariables returns the number of variables currently defined.
func (e *Engine) NumVariables() int32 {
	return e.numVariables
}

// Variable returns the node representing variable v (true exactly when v is
// true). It panics with InvalidNode if v is out of range.
func (e *Engine) Variable(v int32) Node {
	if v < 0 || v >= e.numVariables {
		raise(InvalidNode, "variable index %d out of range [0,%d)", v, e.numVariables)
	}
	return e.varNodes[v][0]
}

// True returns the distinguished TRUE leaf.
func (e *Engine) True() Node { return bddTrue }

// False returns the distinguished FALSE leaf.
func (e *Engine) False() Node { return bddFalse }

// Placeholder returns the sentinel used in a Compose substitution map to
// mean "leave this variable unchanged".
func (e *Engine) Placeholder() Node { return bddPlaceholder }

// Close releases the engine's backing storage. If WithLogStatisticsOnShutdown
// was set, it first logs the result of Statistics. An Engine must not be used
// after Close.
func (e *Engine) Close() {
	if e.cfg.logStatisticsOnShutdown {
		log.Print(e.Statistics())
	}
	e.vars, e.lows, e.highs, e.next, e.refs, e.used, e.mark, e.bucket = nil, nil, nil, nil, nil, nil, nil, nil
	e.workStack = nil
	e.varNodes = nil
}
