package drawer

import (
	"github.com/askiada/go-simval/pkg/simval/measure"
)

// Drawer is an interface that defines the methods for drawing a simulator plan.
type Drawer interface {
	// AddStep adds a plan node to the drawer.
	AddStep(name string) error
	// AddLink adds a link between a producing node and a consuming node.
	AddLink(parentName, childName string) error
	// SetLabel sets the label displayed under a node.
	SetLabel(name, label string) error
	// AddMeasure labels nodes and colours links with the durations held by the measure.
	AddMeasure(msr measure.Measure) error
	// Draw writes the graph.
	Draw() error
}
