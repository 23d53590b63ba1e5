// SPDX-License-Identifier: MPL-2.0

package task

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that task dependencies form a cycle, preventing
	// topological ordering.
	CycleError struct {
		// Cycle contains the tasks that form the cycle (not necessarily all
		// of them, but enough to identify the problem).
		Cycle []string
	}

	// graph is a directed graph of task names used for ordering depends_on
	// relationships. An edge from A to B means A must complete before B
	// starts.
	graph struct {
		// adjacency maps each task to the tasks that depend on it.
		adjacency map[string][]string
		// nodes tracks all tasks in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

func newGraph() *graph {
	return &graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// addNode adds a task to the graph. If it already exists, this is a no-op.
func (g *graph) addNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// addEdge adds a directed edge from -> to, meaning "from" must run before
// "to". Both tasks are implicitly added if they don't exist.
func (g *graph) addEdge(from, to string) {
	g.addNode(from)
	g.addNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// topologicalSort returns a valid execution order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle. The order is
// deterministic: tasks at the same topological level appear in the order
// they were first added.
func (g *graph) topologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		// Remaining tasks with non-zero in-degree form the cycle.
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}
