package schedule

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/assert"
)

type edge struct {
	from, to int
}

// buildGraph turns a stage's systems into a dependency DAG. Edges come from
// two sources: explicit before/after constraints against labels, and implicit
// "cannot run concurrently" pairs from conflicting access sets.
//
// Explicit edges are applied first and checked for cycles; a cyclic
// constraint set is a configuration error reported with the names of the
// systems involved. Implicit edges are then directed along a linear extension
// of the explicit graph (registration order as the tiebreak), so conflicting
// systems without an explicit constraint run in a consistent order that can
// never contradict a transitive explicit one.
//
// It returns the adjacency list (system -> dependents) and each system's
// dependency count.
func buildGraph(systems []*Descriptor) (map[int][]int, []int, error) {
	byLabel := make(map[Label][]int)
	for i, d := range systems {
		for _, l := range d.labels {
			byLabel[l] = append(byLabel[l], i)
		}
	}

	edges := make(map[edge]bool)
	addEdge := func(from, to int) {
		if from != to {
			edges[edge{from: from, to: to}] = true
		}
	}

	// Explicit ordering constraints.
	for i, d := range systems {
		for _, l := range d.after {
			for _, j := range byLabel[l] {
				addEdge(j, i)
			}
		}
		for _, l := range d.before {
			for _, j := range byLabel[l] {
				addEdge(i, j)
			}
		}
	}

	pos, err := linearize(systems, edges)
	if err != nil {
		return nil, nil, err
	}

	// Implicit conflict edges between pairs with no explicit constraint,
	// directed along the linear extension.
	for i := 0; i < len(systems)-1; i++ {
		for j := i + 1; j < len(systems); j++ {
			if edges[edge{from: i, to: j}] || edges[edge{from: j, to: i}] {
				continue
			}
			if !systems[i].conflictsWith(systems[j]) {
				continue
			}
			if pos[i] < pos[j] {
				addEdge(i, j)
			} else {
				addEdge(j, i)
			}
		}
	}

	graph := make(map[int][]int, len(systems))
	indegree := make([]int, len(systems))
	for e := range edges {
		graph[e.from] = append(graph[e.from], e.to)
		indegree[e.to]++
	}
	// Deterministic adjacency order keeps dispatch and failure output stable.
	for from := range graph {
		sort.Ints(graph[from])
	}

	return graph, indegree, nil
}

// linearize computes each system's position in a topological order of the
// explicit-edge graph, preferring registration order among ready systems. Any
// system left unplaced sits on a cycle of explicit constraints.
func linearize(systems []*Descriptor, edges map[edge]bool) ([]int, error) {
	n := len(systems)
	adj := make(map[int][]int, n)
	indegree := make([]int, n)
	for e := range edges {
		adj[e.from] = append(adj[e.from], e.to)
		indegree[e.to]++
	}

	pos := make([]int, n)
	placed := make([]bool, n)
	for next := 0; next < n; next++ {
		id := -1
		for i := 0; i < n; i++ {
			if !placed[i] && indegree[i] == 0 {
				id = i
				break
			}
		}
		if id < 0 {
			var stuck []string
			for i, d := range systems {
				if !placed[i] {
					stuck = append(stuck, d.name)
				}
			}
			return nil, eris.Wrapf(ErrCyclicOrdering, "systems: %s", strings.Join(stuck, ", "))
		}

		placed[id] = true
		pos[id] = next
		for _, dep := range adj[id] {
			assert.That(indegree[dep] > 0, "indegree underflow for system %s", systems[dep].name)
			indegree[dep]--
		}
	}
	return pos, nil
}

// firstTier returns the systems with no dependencies; they are dispatched
// first.
func firstTier(indegree []int) []int {
	var tier []int
	for i, deg := range indegree {
		if deg == 0 {
			tier = append(tier, i)
		}
	}
	return tier
}
