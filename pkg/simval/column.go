package simval

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-simval/pkg/simval/model"
)

// columnRecipe is a merged column configuration with its steps resolved in execution order.
type columnRecipe struct {
	name         string
	distribution model.Step[model.DistributionFunc]
	steps        []model.NamedStep
}

func newColumnRecipe(name string, config model.ColumnConfig) (*columnRecipe, error) {
	subject := "column " + name
	if name == "" {
		return nil, configErr("column", ErrEmptyName)
	}
	if config.Distribution == nil || config.Distribution.Fn == nil {
		return nil, configErr(subject, ErrMissingDistribution)
	}

	byName := make(map[string]model.NamedStep, len(config.Steps))
	for _, step := range config.Steps {
		if step.Name == "" {
			return nil, configErr(subject, ErrEmptyName)
		}
		if step.Step.Fn == nil {
			return nil, configErr(subject, errors.Wrapf(ErrNilFunction, "step %s", step.Name))
		}
		byName[step.Name] = step
	}

	ordered := make([]model.NamedStep, 0, len(config.Steps))
	consumed := make(map[string]struct{}, len(config.Priority))
	for _, name := range config.Priority {
		step, ok := byName[name]
		if !ok {
			return nil, configErr(subject, errors.Wrap(ErrUnknownPriority, name))
		}
		if _, dup := consumed[name]; dup {
			return nil, configErr(subject, errors.Wrap(ErrDuplicatePriority, name))
		}
		consumed[name] = struct{}{}
		ordered = append(ordered, step)
	}
	for _, step := range config.Steps {
		if _, ok := consumed[step.Name]; ok {
			continue
		}
		ordered = append(ordered, step)
	}

	return &columnRecipe{
		name:         name,
		distribution: *config.Distribution,
		steps:        ordered,
	}, nil
}

func (c *columnRecipe) plan() model.ColumnPlan {
	steps := make([]string, 0, len(c.steps)+1)
	steps = append(steps, model.DistributionStep)
	for _, step := range c.steps {
		steps = append(steps, step.Name)
	}

	return model.ColumnPlan{Name: c.name, Steps: steps}
}

// buildColumn draws the base series of the column and runs it through every step.
// Each step must preserve the length of the series.
func (s *Simulator) buildColumn(recipe *columnRecipe, size int) (model.Series, error) {
	start := time.Now()
	series, err := recipe.distribution.Fn(size, recipe.distribution.Kwargs)
	if err != nil {
		return nil, &EvaluationError{Column: recipe.name, Step: model.DistributionStep, Err: err}
	}
	err = s.checkStep(recipe.name, model.DistributionStep, series, size, time.Since(start))
	if err != nil {
		return nil, err
	}

	for _, step := range recipe.steps {
		start = time.Now()
		series, err = step.Step.Fn(series, step.Step.Kwargs)
		if err != nil {
			return nil, &EvaluationError{Column: recipe.name, Step: step.Name, Err: err}
		}
		err = s.checkStep(recipe.name, step.Name, series, size, time.Since(start))
		if err != nil {
			return nil, err
		}
	}

	return series, nil
}

func (s *Simulator) checkStep(column, step string, series model.Series, size int, elapsed time.Duration) error {
	if len(series) != size {
		return &EvaluationError{
			Column: column,
			Step:   step,
			Err:    errors.Wrapf(ErrLengthMismatch, "got %d, want %d", len(series), size),
		}
	}
	for _, opt := range s.hooks {
		err := opt.OnStepOutput(column, step, elapsed)
		if err != nil {
			return &EvaluationError{Column: column, Step: hookStep, Err: errors.Wrap(err, "unable to run step output hook")}
		}
	}

	return nil
}
