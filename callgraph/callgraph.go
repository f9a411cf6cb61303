// Package callgraph performs toposort of the user-function call graph. The
// effect analyzer uses it to analyze callees before callers, so most
// programs converge in a single pass; call cycles are reported so the
// analyzer can iterate them to fixpoint.
//
// Thread compatible.
//
// Legal call sequence: New (AddFunction|AddCall)* Sort (Order|HasCycle|Cycles)*
package callgraph

import (
	"v.io/x/lib/toposort"
)

// edge represents the fact that "caller" invokes "callee" somewhere in its
// body.
type edge struct{ caller, callee string }

// Graph is the main sorter object. Use New() to create one.
type Graph struct {
	sorter     toposort.Sorter
	nodesAdded map[string]bool
	edgesAdded map[edge]bool

	order  []string // filled by Sort()
	cycles [][]string
}

// New creates a new empty graph.
func New() *Graph {
	return &Graph{
		nodesAdded: map[string]bool{},
		edgesAdded: map[edge]bool{},
	}
}

// AddFunction registers a function name, with or without calls.
//
// REQUIRES: Sort has not been called
func (g *Graph) AddFunction(name string) {
	if !g.nodesAdded[name] {
		g.nodesAdded[name] = true
		g.sorter.AddNode(name)
	}
}

// AddCall records that caller invokes callee. Both endpoints are registered.
// Self and duplicate edges are dropped.
//
// REQUIRES: Sort has not been called
func (g *Graph) AddCall(caller, callee string) {
	g.AddFunction(caller)
	g.AddFunction(callee)
	e := edge{caller, callee}
	if caller == callee || g.edgesAdded[e] {
		return
	}
	g.edgesAdded[e] = true
	// The sorter emits dependencies first, so the callee precedes the caller
	// in the resulting order.
	g.sorter.AddEdge(caller, callee)
}

// Sort computes an order in which every function appears after its callees,
// up to cycles. After the Sort call, no AddFunction or AddCall can be called.
func (g *Graph) Sort() {
	sorted, cycles := g.sorter.Sort()
	g.order = make([]string, 0, len(sorted))
	for _, n := range sorted {
		g.order = append(g.order, n.(string))
	}
	g.cycles = nil
	for _, cyc := range cycles {
		names := make([]string, 0, len(cyc))
		for _, n := range cyc {
			names = append(names, n.(string))
		}
		g.cycles = append(g.cycles, names)
	}
}

// Order returns the callee-first function order.
//
// REQUIRES: Sort has been called
func (g *Graph) Order() []string { return g.order }

// HasCycle reports whether the call graph contains recursion (direct
// recursion excluded; self-edges are dropped on AddCall).
//
// REQUIRES: Sort has been called
func (g *Graph) HasCycle() bool { return len(g.cycles) > 0 }

// Cycles returns the call cycles found by Sort.
//
// REQUIRES: Sort has been called
func (g *Graph) Cycles() [][]string { return g.cycles }
