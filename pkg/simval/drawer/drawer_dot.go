package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-simval/pkg/simval/measure"
	"github.com/askiada/go-simval/pkg/simval/model"
)

// DOTDrawer is a drawer that writes the plan graph in the DOT language.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	fileName string
}

// NewDOTDrawer creates a new DOT drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
	}
}

// AddStep adds a node to the graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	return nil
}

// AddLink adds a link between parent and child nodes.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// SetLabel sets the label displayed under a node.
func (d *DOTDrawer) SetLabel(name, label string) error {
	_, properties, err := d.graph.VertexWithProperties(name)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", name)
	}

	properties.Attributes["xlabel"] = label

	return nil
}

// Draw writes the graph to the drawer file.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = d.Render(file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.fileName)
	}

	return nil
}

// Render writes the graph to wrt.
func (d *DOTDrawer) Render(wrt io.Writer) error {
	return dot(d.graph, wrt, GraphAttribute("rankdir", "LR"))
}

const maxRGB = 240

// AddMeasure labels every node with its average duration and colours links from blue (fastest)
// to red (slowest) by the average duration of the consuming node.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	var minValue, maxValue time.Duration
	first := true

	for _, mt := range msr.AllMetrics() {
		for _, elapsed := range mt.AVGInputDurations() {
			if first || elapsed < minValue {
				minValue = elapsed
			}
			if first || elapsed > maxValue {
				maxValue = elapsed
			}
			first = false
		}
	}

	for name, mt := range msr.AllMetrics() {
		err := d.updateMetrics(name, mt, minValue, maxValue)
		if err != nil {
			return errors.Wrap(err, "unable to update metrics")
		}
	}

	return nil
}

func (d *DOTDrawer) updateMetrics(name string, mt measure.Metric, minValue, maxValue time.Duration) error {
	if mt.Count() == 0 {
		return nil
	}

	label := "avg: " + mt.AVGDuration().String()
	if name == model.TableNode {
		label = fmt.Sprintf("runs: %d, avg run: %s", mt.Count(), mt.AVGDuration())
	}

	err := d.SetLabel(name, label)
	if err != nil {
		return err
	}

	for inputNode, elapsed := range mt.AVGInputDurations() {
		colour, err := edgeColour(elapsed, minValue, maxValue)
		if err != nil {
			return err
		}

		err = d.graph.UpdateEdge(inputNode, name,
			graph.EdgeAttribute("label", elapsed.String()),
			graph.EdgeAttribute("fontcolor", "blue"),
			graph.EdgeAttribute("color", colour),
		)
		if err != nil {
			return errors.Wrap(err, "unable to update edge")
		}
	}

	return nil
}

func edgeColour(elapsed, minValue, maxValue time.Duration) (string, error) {
	fraction := 1.0
	if maxValue > minValue {
		fraction = float64(elapsed-minValue) / float64(maxValue-minValue)
	}

	red := uint8(maxRGB * fraction)
	blue := uint8(maxRGB - maxRGB*fraction)

	colour, err := colors.RGB(red, 0, blue) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(gra graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(gra, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the [dot] function.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT lists vertices and edges sorted by name so the output is stable.
func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}
	sort.Strings(vertices)

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		sourceAttributes := make(map[string]string, len(sourceProperties.Attributes))
		for k, v := range sourceProperties.Attributes {
			sourceAttributes[k] = v
		}

		if xlabel, ok := sourceAttributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)

			delete(sourceAttributes, "xlabel")
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceAttributes,
			HTMLAttributes:   htmlAttributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		adjacencies := adjacencyMap[vertex]
		targets := make([]string, 0, len(adjacencies))
		for target := range adjacencies {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		for _, target := range targets {
			edge := adjacencies[target]
			stmt := statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
