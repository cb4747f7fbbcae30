// SPDX-License-Identifier: MPL-2.0

// Package dag orders named steps by their "must run before" edges. The
// packaging pipeline uses it to order stages and to find the stages that
// cannot run once one of their prerequisites fails.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError reports nodes that can never become ready.
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed graph whose nodes are string-like names. An edge
	// from A to B means A must complete before B starts.
	Graph[N ~string] struct {
		next  map[N][]N
		nodes []N
		seen  map[N]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New[N ~string]() *Graph[N] {
	return &Graph[N]{
		next: make(map[N][]N),
		seen: make(map[N]bool),
	}
}

// AddNode adds a node. Adding a known node is a no-op.
func (g *Graph[N]) AddNode(n N) {
	if g.seen[n] {
		return
	}
	g.seen[n] = true
	g.nodes = append(g.nodes, n)
}

// AddEdge records that from must run before to, adding both nodes.
func (g *Graph[N]) AddEdge(from, to N) {
	g.AddNode(from)
	g.AddNode(to)
	g.next[from] = append(g.next[from], to)
}

// Len returns the number of nodes.
func (g *Graph[N]) Len() int { return len(g.nodes) }

// TopologicalSort returns an execution order using Kahn's algorithm.
// Nodes that become ready together keep their insertion order.
func (g *Graph[N]) TopologicalSort() ([]N, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[N]int, len(g.nodes))
	for _, n := range g.nodes {
		for _, m := range g.next[n] {
			inDegree[m]++
		}
	}

	queue := make([]N, 0, len(g.nodes))
	for _, n := range g.nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]N, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, m := range g.next[n] {
			inDegree[m]--
			if inDegree[m] == 0 {
				queue = append(queue, m)
			}
		}
	}

	if len(order) != len(g.nodes) {
		var stuck []string
		for _, n := range g.nodes {
			if inDegree[n] > 0 {
				stuck = append(stuck, string(n))
			}
		}
		return nil, &CycleError{Cycle: stuck}
	}
	return order, nil
}

// Descendants returns every node reachable from n, in insertion order.
// n itself is not included unless it lies on a cycle.
func (g *Graph[N]) Descendants(n N) []N {
	reached := make(map[N]bool)
	stack := append([]N(nil), g.next[n]...)
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[m] {
			continue
		}
		reached[m] = true
		stack = append(stack, g.next[m]...)
	}

	var out []N
	for _, m := range g.nodes {
		if reached[m] {
			out = append(out, m)
		}
	}
	return out
}
