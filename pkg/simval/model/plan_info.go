package model

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

const (
	// DistributionStep is the name reported for the base distribution of every column.
	DistributionStep = "distribution"
	// TableNode is the plan node collecting every final column.
	TableNode = "table"
)

// ColumnPlan lists the steps of one column in execution order, distribution first.
type ColumnPlan struct {
	Name  string
	Steps []string
}

// InteractionPlan describes one interaction in execution order.
type InteractionPlan struct {
	Name    string
	Sources []string
	Split   bool
	Axis    Axis
}

// PlanInfo is the static execution order of a simulator.
type PlanInfo struct {
	Columns      []ColumnPlan
	Interactions []InteractionPlan
}

// PlanEdge links the node producing a series to the node consuming it.
type PlanEdge struct {
	From, To string
}

// ColumnNode returns the node name of a column step.
func ColumnNode(column, step string) string {
	return column + "/" + step
}

// InteractionNode returns the node name of an interaction.
func InteractionNode(name string) string {
	return "interaction/" + name
}

// Nodes returns every node of the plan in execution order, TableNode last.
func (p PlanInfo) Nodes() []string {
	var nodes []string
	for _, col := range p.Columns {
		for _, step := range col.Steps {
			nodes = append(nodes, ColumnNode(col.Name, step))
		}
	}
	for _, ix := range p.Interactions {
		nodes = append(nodes, InteractionNode(ix.Name))
	}

	return append(nodes, TableNode)
}

// Edges returns the data flow of the plan, in execution order.
// Each column step consumes the previous step, each interaction consumes the latest producer
// of its sources and the latest producer of every output feeds TableNode.
func (p PlanInfo) Edges() []PlanEdge {
	var edges []PlanEdge
	producer := make(map[string]string)
	var outputs []string
	setProducer := func(name, node string) {
		if _, ok := producer[name]; !ok {
			outputs = append(outputs, name)
		}
		producer[name] = node
	}

	for _, col := range p.Columns {
		for i := 1; i < len(col.Steps); i++ {
			edges = append(edges, PlanEdge{
				From: ColumnNode(col.Name, col.Steps[i-1]),
				To:   ColumnNode(col.Name, col.Steps[i]),
			})
		}
		if len(col.Steps) > 0 {
			setProducer(col.Name, ColumnNode(col.Name, col.Steps[len(col.Steps)-1]))
		}
	}
	for _, ix := range p.Interactions {
		node := InteractionNode(ix.Name)
		for _, src := range ix.Sources {
			if from, ok := producer[src]; ok {
				edges = append(edges, PlanEdge{From: from, To: node})
			}
		}
		setProducer(ix.Name, node)
	}
	for _, name := range outputs {
		edges = append(edges, PlanEdge{From: producer[name], To: TableNode})
	}

	return edges
}

// Graph builds a directed graph of the plan. The graph only describes the data flow:
// execution order is given by the plan itself.
func (p PlanInfo) Graph() (graph.Graph[string, string], error) {
	gra := graph.New(graph.StringHash, graph.Directed())
	for _, node := range p.Nodes() {
		err := gra.AddVertex(node)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add vertex %s", node)
		}
	}
	for _, edge := range p.Edges() {
		err := gra.AddEdge(edge.From, edge.To)
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, errors.Wrapf(err, "unable to add edge from %s to %s", edge.From, edge.To)
		}
	}

	return gra, nil
}

// Lineage returns the columns declared on the simulator that the named output depends on,
// in declaration order. An output that is itself a column depends on that column.
func (p PlanInfo) Lineage(name string) ([]string, error) {
	gra, err := p.Graph()
	if err != nil {
		return nil, err
	}
	start := ""
	for _, edge := range p.Edges() {
		if edge.To == TableNode && (edge.From == InteractionNode(name) || p.isColumnNode(name, edge.From)) {
			start = edge.From
		}
	}
	if start == "" {
		return nil, errors.Wrap(ErrColumnNotFound, name)
	}

	predecessors, err := gra.PredecessorMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get predecessor map")
	}
	visited := map[string]struct{}{start: {}}
	stack := []string{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for parent := range predecessors[current] {
			if _, ok := visited[parent]; ok {
				continue
			}
			visited[parent] = struct{}{}
			stack = append(stack, parent)
		}
	}

	var lineage []string
	for _, col := range p.Columns {
		if _, ok := visited[ColumnNode(col.Name, DistributionStep)]; ok {
			lineage = append(lineage, col.Name)
		}
	}

	return lineage, nil
}

func (p PlanInfo) isColumnNode(column, node string) bool {
	for _, col := range p.Columns {
		if col.Name != column {
			continue
		}
		for _, step := range col.Steps {
			if ColumnNode(col.Name, step) == node {
				return true
			}
		}
	}

	return false
}
