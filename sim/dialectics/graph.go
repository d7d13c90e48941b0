// graph.go builds the relationship network between entities implicated in
// contradictions: one node per entity, one weighted edge per contradiction,
// edge weight tracking intensity. The network exports to DOT for rendering
// and reports basic structural statistics.
package dialectics

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// actorNode is a graph node labeled with an entity ID.
type actorNode struct {
	id    int64
	actor string
}

func (n actorNode) ID() int64     { return n.id }
func (n actorNode) DOTID() string { return n.actor }

// relationEdge is a contradiction edge carrying intensity as its weight.
type relationEdge struct {
	from, to graph.Node
	weight   float64
	label    string
}

func (e relationEdge) From() graph.Node { return e.from }
func (e relationEdge) To() graph.Node   { return e.to }
func (e relationEdge) ReversedEdge() graph.Edge {
	return relationEdge{from: e.to, to: e.from, weight: e.weight, label: e.label}
}
func (e relationEdge) Weight() float64 { return e.weight }
func (e relationEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: e.label},
		{Key: "weight", Value: strconv.FormatFloat(e.weight, 'f', 3, 64)},
	}
}

// Network is the entity relationship graph derived from contradictions.
type Network struct {
	g     *simple.WeightedUndirectedGraph
	nodes map[string]actorNode
}

// Network builds the current relationship network. Resolved contradictions
// are excluded; their tension no longer structures the relationship.
func (a *Analysis) Network() *Network {
	n := &Network{
		g:     simple.NewWeightedUndirectedGraph(0, 0),
		nodes: make(map[string]actorNode),
	}
	for _, c := range a.contradictions {
		if c.State == StateResolved {
			continue
		}
		u := n.node(c.PrincipalAspect.EntityID)
		v := n.node(c.SecondaryAspect.EntityID)
		if u.id == v.id {
			continue // self-referential contradiction has no edge
		}
		// When several contradictions tie the same pair, the most intense
		// one labels the edge.
		if prev := n.g.WeightedEdge(u.id, v.id); prev != nil {
			if prev.(relationEdge).weight >= c.Intensity {
				continue
			}
		}
		n.g.SetWeightedEdge(relationEdge{from: u, to: v, weight: c.Intensity, label: c.Name})
	}
	return n
}

func (n *Network) node(actor string) actorNode {
	if node, ok := n.nodes[actor]; ok {
		return node
	}
	node := actorNode{id: int64(len(n.nodes)), actor: actor}
	n.nodes[actor] = node
	n.g.AddNode(node)
	return node
}

// Order and Size follow the usual graph-theory naming: node and edge counts.
func (n *Network) Order() int { return n.g.Nodes().Len() }
func (n *Network) Size() int  { return n.g.Edges().Len() }

// Density returns 2E / V(V-1), zero for graphs with fewer than two nodes.
func (n *Network) Density() float64 {
	v := n.Order()
	if v < 2 {
		return 0
	}
	return 2.0 * float64(n.Size()) / (float64(v) * float64(v-1))
}

// Components returns the connected components as sorted entity ID lists,
// largest component first.
func (n *Network) Components() [][]string {
	var out [][]string
	for _, comp := range topo.ConnectedComponents(n.g) {
		ids := make([]string, 0, len(comp))
		for _, node := range comp {
			ids = append(ids, node.(actorNode).actor)
		}
		sort.Strings(ids)
		out = append(out, ids)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})
	return out
}

// DOT renders the network in Graphviz DOT format.
func (n *Network) DOT() ([]byte, error) {
	data, err := dot.Marshal(n.g, "contradictions", "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal network: %w", err)
	}
	return data, nil
}
