package simval

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/go-simval/pkg/simval/model"
)

// DefaultColumn is the column built from the defaults when no column is declared.
const DefaultColumn = "simulation"

// Simulator builds synthetic tables from column and interaction recipes.
// It is immutable once created and safe for concurrent use.
type Simulator struct {
	columns      []*columnRecipe
	interactions []model.Interaction
	plan         model.PlanInfo
	hooks        []model.SimulatorOption
	logger       *slog.Logger
}

// New creates a simulator. Every declared column is built from defaults merged with its own
// configuration, see model.ColumnConfig.Merge. defaults must provide a distribution.
func New(defaults model.ColumnConfig, opts ...Option) (*Simulator, error) {
	if defaults.Distribution == nil || defaults.Distribution.Fn == nil {
		return nil, configErr("defaults", ErrMissingDistribution)
	}

	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.columns) == 0 {
		b.columns = []columnDecl{{name: DefaultColumn}}
	}

	sim := &Simulator{
		hooks:  b.hooks,
		logger: b.logger,
	}
	if sim.logger == nil {
		sim.logger = slog.New(slog.DiscardHandler)
	}

	for _, decl := range b.columns {
		recipe, err := newColumnRecipe(decl.name, defaults.Merge(decl.config))
		if err != nil {
			return nil, err
		}
		sim.columns = append(sim.columns, recipe)
	}

	interactions := make([]model.Interaction, 0, len(b.interactions))
	for _, ix := range b.interactions {
		ix = ix.Clone()
		err := checkInteraction(ix)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, ix)
	}
	ordered, err := orderInteractions(interactions, b.priority)
	if err != nil {
		return nil, err
	}
	sim.interactions = ordered

	sim.plan = sim.buildPlan()
	err = checkSources(sim.plan)
	if err != nil {
		return nil, err
	}

	for _, opt := range sim.hooks {
		err := opt.New(sim.Plan())
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply simulator option")
		}
	}

	return sim, nil
}

func (s *Simulator) buildPlan() model.PlanInfo {
	plan := model.PlanInfo{
		Columns:      make([]model.ColumnPlan, len(s.columns)),
		Interactions: make([]model.InteractionPlan, len(s.interactions)),
	}
	for i, col := range s.columns {
		plan.Columns[i] = col.plan()
	}
	for i, ix := range s.interactions {
		plan.Interactions[i] = model.InteractionPlan{
			Name:    ix.Name,
			Sources: append([]string(nil), ix.Sources...),
			Split:   ix.Fn.Split(),
			Axis:    ix.Axis,
		}
	}

	return plan
}

// checkSources walks the interactions in execution order and fails on the first source that
// would not be in the table when the interaction runs.
func checkSources(plan model.PlanInfo) error {
	available := make(map[string]struct{}, len(plan.Columns)+len(plan.Interactions))
	for _, col := range plan.Columns {
		available[col.Name] = struct{}{}
	}
	for _, ix := range plan.Interactions {
		for _, src := range ix.Sources {
			if _, ok := available[src]; !ok {
				return configErr("interaction "+ix.Name, errors.Wrap(ErrMissingColumn, src))
			}
		}
		available[ix.Name] = struct{}{}
	}

	return nil
}

// Plan returns the static execution order of the simulator.
func (s *Simulator) Plan() model.PlanInfo {
	plan := model.PlanInfo{
		Columns:      make([]model.ColumnPlan, len(s.plan.Columns)),
		Interactions: make([]model.InteractionPlan, len(s.plan.Interactions)),
	}
	for i, col := range s.plan.Columns {
		col.Steps = append([]string(nil), col.Steps...)
		plan.Columns[i] = col
	}
	for i, ix := range s.plan.Interactions {
		ix.Sources = append([]string(nil), ix.Sources...)
		plan.Interactions[i] = ix
	}

	return plan
}

// ColumnNames returns the declared columns in declaration order.
func (s *Simulator) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.name
	}

	return names
}

// InteractionNames returns the declared interactions in execution order.
func (s *Simulator) InteractionNames() []string {
	names := make([]string, len(s.interactions))
	for i, ix := range s.interactions {
		names[i] = ix.Name
	}

	return names
}

// Simulate builds a table of size rows. Base columns are built first, in declaration order,
// then interactions are evaluated in execution order against the table built so far.
// No partial table is returned on error.
func (s *Simulator) Simulate(size int) (*model.Table, error) {
	if size <= 0 {
		return nil, configErr("simulate", errors.Wrapf(ErrInvalidSize, "got %d", size))
	}

	table, err := s.buildBase(size)
	if err != nil {
		return nil, err
	}

	return s.evaluateInteractions(table)
}

func (s *Simulator) buildBase(size int) (*model.Table, error) {
	table := model.NewTable(size)
	for _, col := range s.columns {
		series, err := s.buildColumn(col, size)
		if err != nil {
			return nil, err
		}
		err = table.Set(col.name, series)
		if err != nil {
			return nil, &EvaluationError{Column: col.name, Step: model.DistributionStep, Err: err}
		}
		s.logger.Debug("column built", "name", col.name, "steps", len(col.steps)+1, "rows", size)
	}

	return table, nil
}

// Finish runs the Finish hook of every simulator option.
func (s *Simulator) Finish() error {
	for _, opt := range s.hooks {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish simulator option")
		}
	}

	return nil
}
