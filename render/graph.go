package render

import (
	"sort"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"pkg.lodestone.dev/lodestone/world"
)

var (
	ErrGraphNodeNotFound = eris.New("render graph node not found")
	ErrGraphNotFound     = eris.New("render sub-graph not found")
	ErrGraphCycle        = eris.New("render graph has a cycle")
)

// SlotKind types a graph input slot.
type SlotKind uint8

const (
	SlotEntity SlotKind = iota
	SlotBuffer
	SlotTexture
)

// SlotInfo names one typed input a graph expects from its caller.
type SlotInfo struct {
	Name string
	Kind SlotKind
}

// GraphNode is one executable step of a render graph.
type GraphNode interface {
	Run(w *world.World) error
}

type graphEntry struct {
	id   uuid.UUID
	name string
	node GraphNode
}

// Graph is a DAG of named render nodes. Edges order execution; sub-graphs are
// nested graphs run by driver nodes.
type Graph struct {
	order     []string
	nodes     map[string]*graphEntry
	edges     map[string][]string
	inputs    []SlotInfo
	subGraphs map[string]*Graph
}

func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*graphEntry),
		edges:     make(map[string][]string),
		subGraphs: make(map[string]*Graph),
	}
}

// SetInput declares the slots a caller must fill when running this graph.
func (g *Graph) SetInput(slots []SlotInfo) {
	g.inputs = slots
}

// Inputs returns the declared input slots.
func (g *Graph) Inputs() []SlotInfo {
	return g.inputs
}

// AddNode registers a node under a unique name and returns its id.
func (g *Graph) AddNode(name string, node GraphNode) uuid.UUID {
	entry := &graphEntry{id: uuid.New(), name: name, node: node}
	g.nodes[name] = entry
	g.order = append(g.order, name)
	return entry.id
}

// AddNodeEdge orders from before to. Both nodes must already exist.
func (g *Graph) AddNodeEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return eris.Wrapf(ErrGraphNodeNotFound, "edge source %q", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return eris.Wrapf(ErrGraphNodeNotFound, "edge target %q", to)
	}
	g.edges[from] = append(g.edges[from], to)
	return nil
}

// AddSubGraph nests a graph under a name.
func (g *Graph) AddSubGraph(name string, sub *Graph) {
	g.subGraphs[name] = sub
}

// SubGraph looks up a nested graph.
func (g *Graph) SubGraph(name string) (*Graph, error) {
	sub, ok := g.subGraphs[name]
	if !ok {
		return nil, eris.Wrapf(ErrGraphNotFound, "sub-graph %q", name)
	}
	return sub, nil
}

// Run executes the graph's nodes in topological order.
func (g *Graph) Run(w *world.World) error {
	sorted, err := g.topoSort()
	if err != nil {
		return err
	}
	for _, name := range sorted {
		if err := g.nodes[name].node.Run(w); err != nil {
			return eris.Wrapf(err, "render node %q failed", name)
		}
	}
	return nil
}

// topoSort orders nodes by their edges, breaking ties by insertion order.
func (g *Graph) topoSort() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for _, name := range g.order {
		indegree[name] = 0
	}
	for _, targets := range g.edges {
		for _, to := range targets {
			indegree[to]++
		}
	}

	ready := make([]string, 0, len(g.nodes))
	for _, name := range g.order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	sorted := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		sorted = append(sorted, name)
		for _, to := range g.edges[name] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}
	if len(sorted) != len(g.nodes) {
		return nil, ErrGraphCycle
	}
	return sorted, nil
}

type graphDump struct {
	Nodes     []graphDumpNode      `json:"nodes"`
	Edges     map[string][]string  `json:"edges,omitempty"`
	SubGraphs map[string]graphDump `json:"subGraphs,omitempty"`
}

type graphDumpNode struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// DumpJSON renders the graph topology for diagnostics.
func (g *Graph) DumpJSON() ([]byte, error) {
	raw, err := json.Marshal(g.dump())
	if err != nil {
		return nil, eris.Wrap(err, "failed to encode render graph")
	}
	return raw, nil
}

func (g *Graph) dump() graphDump {
	d := graphDump{Edges: g.edges}
	for _, name := range g.order {
		d.Nodes = append(d.Nodes, graphDumpNode{Name: name, ID: g.nodes[name].id.String()})
	}
	if len(g.subGraphs) > 0 {
		d.SubGraphs = make(map[string]graphDump, len(g.subGraphs))
		names := make([]string, 0, len(g.subGraphs))
		for name := range g.subGraphs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			d.SubGraphs[name] = g.subGraphs[name].dump()
		}
	}
	return d
}

// NopNode does nothing. Drivers and placeholder passes use it.
type NopNode struct{}

func (NopNode) Run(*world.World) error { return nil }

// subGraphDriver runs a named sub-graph of the parent graph.
type subGraphDriver struct {
	parent *Graph
	name   string
}

func (d subGraphDriver) Run(w *world.World) error {
	sub, err := d.parent.SubGraph(d.name)
	if err != nil {
		return err
	}
	return sub.Run(w)
}
