package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-simval/pkg/simval/model"
)

// ErrUnknownNode is returned when a hook reports a node that is not in the plan.
var ErrUnknownNode = errors.New("node is not part of the plan")

type simulatorMeasure struct {
	Measure
	parents map[string][]string
}

func (sm *simulatorMeasure) New(plan model.PlanInfo) error {
	for _, node := range plan.Nodes() {
		sm.AddMetric(node)
	}
	sm.parents = make(map[string][]string)
	for _, edge := range plan.Edges() {
		sm.parents[edge.To] = append(sm.parents[edge.To], edge.From)
	}

	return nil
}

func (sm *simulatorMeasure) observe(node string, elapsed time.Duration, withInputs bool) error {
	mt, ok := sm.GetMetric(node)
	if !ok {
		return errors.Wrap(ErrUnknownNode, node)
	}
	mt.AddDuration(elapsed)
	if !withInputs {
		return nil
	}
	for _, parent := range sm.parents[node] {
		mt.AddInputDuration(parent, elapsed)
	}

	return nil
}

func (sm *simulatorMeasure) OnStepOutput(column, step string, elapsed time.Duration) error {
	return sm.observe(model.ColumnNode(column, step), elapsed, true)
}

func (sm *simulatorMeasure) OnInteractionOutput(name string, _ []string, elapsed time.Duration) error {
	return sm.observe(model.InteractionNode(name), elapsed, true)
}

func (sm *simulatorMeasure) OnRunOutput(_, _ int, elapsed time.Duration) error {
	return sm.observe(model.TableNode, elapsed, false)
}

func (sm *simulatorMeasure) Finish() error {
	return nil
}

// SimulatorMeasure records the duration of every step, interaction and validation run in m.
func SimulatorMeasure(m Measure) model.SimulatorOption {
	return &simulatorMeasure{Measure: m}
}
