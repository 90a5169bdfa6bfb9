// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package robdd

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/olekukonko/tablewriter"
)

// Check walks every live node in the table and raises InvariantViolation at
// the first broken invariant: reducedness, ordering, canonicity, or chain
// integrity. It is not on any hot path; tests call it after a sequence of
// operations to catch a corrupted engine early.
func (e *Engine) Check() {
	type triple struct {
		level      int32
		low, high  Node
	}
	seen := make(map[triple]int32, e.tableSize-int32(e.freeCount))
	for idx := int32(0); idx < e.tableSize; idx++ {
		if !e.used[idx] {
			continue
		}
		level := e.vars[idx]
		low, high := e.lows[idx], e.highs[idx]
		if low == high {
			raise(InvariantViolation, "node %d violates reducedness: low == high == %d", idx, low)
		}
		if !low.isLeaf() && e.vars[low] <= level {
			raise(InvariantViolation, "node %d violates ordering: level %d low child at level %d", idx, level, e.vars[low])
		}
		if !high.isLeaf() && e.vars[high] <= level {
			raise(InvariantViolation, "node %d violates ordering: level %d high child at level %d", idx, level, e.vars[high])
		}
		key := triple{level, low, high}
		if other, dup := seen[key]; dup {
			raise(InvariantViolation, "nodes %d and %d share the triple (%d,%d,%d)", other, idx, level, low, high)
		}
		seen[key] = idx
		h := nodeHash(level, low, high, int(e.tableSize))
		found := false
		for c := e.bucket[h]; c != emptyChain; c = e.next[c] {
			if c == idx {
				found = true
				break
			}
		}
		if !found {
			raise(InvariantViolation, "node %d is not reachable from the hash chain of its own bucket", idx)
		}
	}
}

// Statistics returns a human-readable report of node-table occupancy, GC
// activity, and the hit rate of every operation cache.
func (e *Engine) Statistics() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Variables:   %d\n", e.numVariables)
	fmt.Fprintf(&buf, "Allocated:   %d\n", e.tableSize)
	fmt.Fprintf(&buf, "Produced:    %d\n", e.produced)
	used := int(e.tableSize) - e.freeCount
	fmt.Fprintf(&buf, "Used:        %d (%.3g %%)\n", used, 100*float64(used)/float64(e.tableSize))
	fmt.Fprintf(&buf, "Free:        %d (%.3g %%)\n", e.freeCount, 100*float64(e.freeCount)/float64(e.tableSize))
	fmt.Fprintf(&buf, "GC runs:     %d\n", e.gcCount)
	fmt.Fprintf(&buf, "Dead approx: %d\n", e.deadApprox)

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"cache", "capacity", "hits", "misses", "hit rate"})
	rows := []struct {
		name string
		stat cacheStat
		cap  int
	}{
		{"negation", e.caches.negation.stat, len(e.caches.negation.table)},
		{"binary", e.caches.binary.stat, len(e.caches.binary.table)},
		{"ite", e.caches.ite.stat, len(e.caches.ite.table)},
		{"compose/restrict/quant/rename", e.caches.generation.stat, len(e.caches.generation.table)},
		{"satisfaction", e.caches.satisfaction.stat, len(e.caches.satisfaction.table)},
		{"implies", e.caches.implies.stat, len(e.caches.implies.table)},
	}
	for _, r := range rows {
		table.Append([]string{
			r.name,
			strconv.Itoa(r.cap),
			strconv.FormatInt(r.stat.hits, 10),
			strconv.FormatInt(r.stat.misses, 10),
			fmt.Sprintf("%.1f %%", r.stat.ratio()*100),
		})
	}
	table.Render()
	return buf.String()
}

// reachable returns the used node ids reachable from roots, in ascending
// order, or every used node id if roots is empty.
func (e *Engine) reachable(roots []Node) []int32 {
	if len(roots) == 0 {
		ids := make([]int32, 0, int(e.tableSize)-e.freeCount)
		for idx := int32(0); idx < e.tableSize; idx++ {
			if e.used[idx] {
				ids = append(ids, idx)
			}
		}
		return ids
	}
	visited := make([]bool, e.tableSize)
	var ids []int32
	var rec func(Node)
	rec = func(n Node) {
		if n.isLeaf() || visited[n] {
			return
		}
		visited[n] = true
		ids = append(ids, int32(n))
		rec(e.lows[n])
		rec(e.highs[n])
	}
	for _, r := range roots {
		e.checkNode(r)
		rec(r)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DumpTable writes a tabular listing of the nodes reachable from roots (or
// every live node, if roots is empty) to w: id, level, high child, low
// child.
func (e *Engine) DumpTable(w io.Writer, roots ...Node) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, id := range e.reachable(roots) {
		fmt.Fprintf(tw, "%d\t[%d]\t?\t%d\t:\t%d\n", id, e.vars[id], e.highs[id], e.lows[id])
	}
	return tw.Flush()
}

// DumpDOT writes a GraphViz description of the nodes reachable from roots
// (or every live node, if roots is empty) to w.
func (e *Engine) DumpDOT(w io.Writer, roots ...Node) error {
	fmt.Fprintln(w, "digraph G {")
	fmt.Fprintf(w, "%d [shape=box, label=\"1\", style=filled, height=0.3, width=0.3];\n", bddTrue)
	for _, id := range e.reachable(roots) {
		fmt.Fprintf(w, "%d %s\n", id, dotlabel(id, e.vars[id]))
		if low := e.lows[id]; low != bddFalse {
			fmt.Fprintf(w, "%d -> %d [style=dotted];\n", id, low)
		}
		if high := e.highs[id]; high != bddFalse {
			fmt.Fprintf(w, "%d -> %d [style=filled];\n", id, high)
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}

func dotlabel(id int32, level int32) string {
	return fmt.Sprintf(`[label=<
	<FONT POINT-SIZE="20">%d</FONT>
	<FONT POINT-SIZE="10">[%d]</FONT>
>];`, id, level)
}
