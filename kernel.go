// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"fmt"

	"github.com/pkg/errors"
)

// Node is a handle to a vertex in the ROBDD graph. Non-negative values are
// indices into the engine's node table; negative values denote the fixed set
// of leaves (and the Compose placeholder). Index 0 is an ordinary slot: it
// holds the first node created by New, the node of variable 0.
type Node int32

// The leaves. We keep them negative so that the whole non-negative range
// stays available for internal node slots; a future multi-terminal extension
// can grow further into negative values without colliding with a table index.
const (
	bddFalse       Node = -1
	bddTrue        Node = -2
	bddPlaceholder Node = -3
)

func (n Node) isLeaf() bool {
	return n < 0
}

// _MAXVAR is the maximal number of variables (and so the maximal level) an
// engine can manage. We keep 21 bits for the level, as in the BuDDy-derived
// ancestor of this package, leaving the rest of an int32 free for saturation
// and marking concerns handled in separate slices here.
const _MAXVAR int32 = 0x1FFFFF

// _MAXREFCOUNT is the saturating value of a node's reference count. Once a
// node's count reaches this value it can no longer underflow to zero, which
// is how we pin permanent nodes such as variables without a dedicated flag.
const _MAXREFCOUNT int32 = 0x3FF

// _DEFAULTMAXNODEINC bounds how many slots a single resize can add.
const _DEFAULTMAXNODEINC int = 1 << 20

// Kind classifies the family of a Fault.
type Kind int

const (
	// InvalidNode: a Node handle does not refer to a live slot in the engine.
	InvalidNode Kind = iota
	// OrderViolation: an attempt to build a node whose children do not
	// respect the variable ordering invariant.
	OrderViolation
	// ReferenceUnderflow: Dereference called on a node with a zero count.
	ReferenceUnderflow
	// ReentrantAccess: a public operation was entered while another was
	// already in progress on the same engine.
	ReentrantAccess
	// InvariantViolation: Check found the node table in an inconsistent
	// state, or a call received arguments it cannot act on (a bad variable
	// count, a malformed VariableMap, a FALSE node passed to
	// GetSatisfyingAssignment, an operator Apply does not accept).
	InvariantViolation
	// ResourceExhausted: the node table could not be grown further to
	// satisfy a request, or CreateVariable was called with the maximum
	// number of variables already defined.
	ResourceExhausted
)

func (k Kind) String() string {
	switch k {
	case InvalidNode:
		return "invalid node"
	case OrderViolation:
		return "order violation"
	case ReferenceUnderflow:
		return "reference underflow"
	case ReentrantAccess:
		return "reentrant access"
	case InvariantViolation:
		return "invariant violation"
	case ResourceExhausted:
		return "resource exhausted"
	default:
		return "unknown fault"
	}
}

// Fault is the type of all errors raised by this package. Every condition
// this engine detects is fatal: we never try to recover a usable state, we
// report it as a Fault and panic. Client code that wants to turn this into a
// recoverable error can recover() at the boundary and type-assert on Fault.
type Fault struct {
	Kind    Kind
	Message string
	cause   error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("robdd: %s: %s", f.Kind, f.Message)
}

// Unwrap lets errors.Is/errors.As see through a Fault to its cause, when one
// was attached with fault().
func (f *Fault) Unwrap() error {
	return f.cause
}

// Format implements fmt.Formatter so that %+v prints a stack trace, the
// reason we lean on github.com/pkg/errors here instead of bare fmt.Errorf.
func (f *Fault) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n", f.Error())
		if f.cause != nil {
			fmt.Fprintf(s, "%+v", f.cause)
		}
		return
	}
	fmt.Fprint(s, f.Error())
}

func fault(kind Kind, format string, a ...interface{}) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, a...), cause: errors.New(fmt.Sprintf(format, a...))}
}

// raise panics with a Fault of the given kind. Every fatal condition in this
// package goes through this single function.
func raise(kind Kind, format string, a ...interface{}) {
	panic(fault(kind, format, a...))
}
