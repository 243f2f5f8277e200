package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-simval/pkg/simval/measure"
	"github.com/askiada/go-simval/pkg/simval/model"
)

type simulatorDrawer struct {
	Drawer
	m measure.Measure
}

func (sd *simulatorDrawer) New(plan model.PlanInfo) error {
	for _, node := range plan.Nodes() {
		err := sd.AddStep(node)
		if err != nil {
			return errors.Wrapf(err, "unable to add %s to drawer", node)
		}
	}
	for _, edge := range plan.Edges() {
		err := sd.AddLink(edge.From, edge.To)
		if err != nil {
			return err
		}
	}

	return nil
}

func (sd *simulatorDrawer) OnStepOutput(_, _ string, _ time.Duration) error {
	return nil
}

func (sd *simulatorDrawer) OnInteractionOutput(_ string, _ []string, _ time.Duration) error {
	return nil
}

func (sd *simulatorDrawer) OnRunOutput(_, _ int, _ time.Duration) error {
	return nil
}

func (sd *simulatorDrawer) Finish() error {
	if sd.m != nil {
		err := sd.AddMeasure(sd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := sd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw plan")
	}

	return nil
}

// SimulatorDrawer draws the simulator plan when the simulator is finished. When msr is not nil,
// nodes and links are annotated with its durations; msr is expected to be registered on the same
// simulator through measure.SimulatorMeasure.
func SimulatorDrawer(drawer Drawer, msr measure.Measure) model.SimulatorOption {
	return &simulatorDrawer{drawer, msr}
}
