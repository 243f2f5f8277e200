package simval_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-simval/pkg/simval/model"
)

func sequence(size int, kw model.Kwargs) (model.Series, error) {
	start, err := kw.Float("start", 0)
	if err != nil {
		return nil, err
	}
	out := make(model.Series, size)
	for i := range out {
		out[i] = start + float64(i)
	}

	return out, nil
}

func sequenceDefaults() model.ColumnConfig {
	return model.ColumnConfig{Distribution: model.Distribution(sequence, nil)}
}

func add(_ model.Kwargs, cols ...model.Series) (model.Series, error) {
	out := make(model.Series, len(cols[0]))
	for _, col := range cols {
		for i, v := range col {
			out[i] += v
		}
	}

	return out, nil
}

func addBundle(frame *model.Table, kw model.Kwargs) (model.Series, error) {
	return add(kw, frame.Columns()...)
}

// recordStep returns a transform appending its name to the shared log.
func recordStep(mu *sync.Mutex, log *[]string, name string) model.NamedStep {
	return model.Transform(name, func(in model.Series, _ model.Kwargs) (model.Series, error) {
		mu.Lock()
		defer mu.Unlock()
		*log = append(*log, name)

		return in, nil
	}, nil)
}

func sumModel(sources ...string) func(context.Context, *model.Table) (model.Series, error) {
	return func(_ context.Context, inputs *model.Table) (model.Series, error) {
		cols := make([]model.Series, 0, len(sources))
		for _, src := range sources {
			col, _ := inputs.Column(src)
			cols = append(cols, col)
		}

		return add(nil, cols...)
	}
}

type hookEvent struct {
	kind string
	name string
}

type recordingHook struct {
	mu       sync.Mutex
	plan     model.PlanInfo
	events   []hookEvent
	finished int
	runs     []int
	failOn   string
}

func (h *recordingHook) New(plan model.PlanInfo) error {
	h.plan = plan

	return nil
}

func (h *recordingHook) OnStepOutput(column, step string, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	node := model.ColumnNode(column, step)
	if node == h.failOn {
		return assert.AnError
	}
	h.events = append(h.events, hookEvent{kind: "step", name: node})

	return nil
}

func (h *recordingHook) OnInteractionOutput(name string, _ []string, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, hookEvent{kind: "interaction", name: name})

	return nil
}

func (h *recordingHook) OnRunOutput(run, _ int, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, run)

	return nil
}

func (h *recordingHook) Finish() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished++

	return nil
}

var _ model.SimulatorOption = (*recordingHook)(nil)
