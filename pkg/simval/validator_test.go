package simval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-simval/pkg/simval"
	"github.com/askiada/go-simval/pkg/simval/model"
)

func newXYZSimulator(t *testing.T, opts ...simval.Option) *simval.Simulator {
	t.Helper()

	sim, err := simval.New(sequenceDefaults(), append(append(xyOptions(),
		simval.Interaction(model.Interaction{Name: "z", Sources: []string{"x", "y"}, Fn: model.Spread(add)}),
	), opts...)...)
	require.NoError(t, err)

	return sim
}

// failOnSize returns a model failing on tables of the given size.
func failOnSize(size int) simval.ModelFuncs {
	return simval.ModelFuncs{
		"z": func(ctx context.Context, inputs *model.Table) (model.Series, error) {
			if inputs.Len() == size {
				return nil, assert.AnError
			}

			return sumModel("x", "y")(ctx, inputs)
		},
	}
}

type runSummary struct {
	Index int
	Size  int
	Rows  int
	Names []string
	Cmp   []simval.Comparison
	Err   bool
}

func summarise(results []simval.RunResult) []runSummary {
	out := make([]runSummary, len(results))
	for i, res := range results {
		out[i] = runSummary{Index: res.Index, Size: res.Size, Cmp: res.Comparisons, Err: res.Err != nil}
		if res.Table != nil {
			out[i].Rows = res.Table.Len()
			out[i].Names = res.Table.Names()
		}
	}

	return out
}

func TestNewValidatorError(t *testing.T) {
	t.Parallel()

	sim := newXYZSimulator(t)

	tests := map[string]struct {
		model   simval.Model
		sim     *simval.Simulator
		opts    []simval.ValidatorOption
		wantErr error
	}{
		"nil model": {
			sim:     sim,
			wantErr: simval.ErrModelMustBeSet,
		},
		"nil simulator": {
			model:   simval.ModelFuncs{},
			wantErr: simval.ErrSimulatorMustBeSet,
		},
		"missing model function": {
			model:   simval.ModelFuncs{"other": sumModel("x")},
			sim:     sim,
			wantErr: simval.ErrMissingModelFunc,
		},
		"nil model function": {
			model:   simval.ModelFuncs{"z": nil},
			sim:     sim,
			wantErr: simval.ErrMissingModelFunc,
		},
		"invalid workers": {
			model:   simval.ModelFuncs{"z": sumModel("x", "y")},
			sim:     sim,
			opts:    []simval.ValidatorOption{simval.Workers(0)},
			wantErr: simval.ErrInvalidWorkers,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			validator, err := simval.NewValidator(tc.model, tc.sim, tc.opts...)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, validator)

			var cfgErr *simval.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		parallel bool
		opts     []simval.ValidatorOption
	}{
		"sequential":       {},
		"parallel":         {parallel: true},
		"parallel bounded": {parallel: true, opts: []simval.ValidatorOption{simval.Workers(1)}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hook := &recordingHook{}
			sim := newXYZSimulator(t, simval.WithHooks(hook))
			validator, err := simval.NewValidator(simval.ModelFuncs{"z": sumModel("x", "y")}, sim, tc.opts...)
			require.NoError(t, err)

			results, err := validator.Validate(t.Context(), 5, []int{1, 2, 3}, tc.parallel)
			require.NoError(t, err)
			require.Len(t, results, 5)

			for i, res := range results {
				assert.Equal(t, i, res.Index)
				assert.Equal(t, []int{1, 2, 3, 3, 3}[i], res.Size)
				assert.Equal(t, res.Size, res.Table.Len())
				require.Len(t, res.Comparisons, 1)
				assert.Equal(t, "z", res.Comparisons[0].Name)
				assert.Equal(t, res.Comparisons[0].Simulated, res.Comparisons[0].Predicted)
				assert.NoError(t, res.Err)
			}
			assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, hook.runs)
			assert.Equal(t, 1, hook.finished)
		})
	}
}

func TestValidateParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	sim := newXYZSimulator(t)
	validator, err := simval.NewValidator(simval.ModelFuncs{"z": sumModel("x")}, sim, simval.Workers(3))
	require.NoError(t, err)

	sequential, err := validator.Validate(t.Context(), 8, []int{4, 1, 7}, false)
	require.NoError(t, err)
	parallel, err := validator.Validate(t.Context(), 8, []int{4, 1, 7}, true)
	require.NoError(t, err)

	assert.Equal(t, summarise(sequential), summarise(parallel))
}

func TestValidateModelInputs(t *testing.T) {
	t.Parallel()

	sim := newXYZSimulator(t)
	var got []string
	validator, err := simval.NewValidator(simval.ModelFuncs{
		"z": func(ctx context.Context, inputs *model.Table) (model.Series, error) {
			got = inputs.Names()

			return sumModel("x", "y")(ctx, inputs)
		},
	}, sim)
	require.NoError(t, err)

	_, err = validator.Validate(t.Context(), 1, []int{2}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got)
}

func TestValidateModelInputsExcludeInteractionOutputs(t *testing.T) {
	t.Parallel()

	double := func(_ model.Kwargs, cols ...model.Series) (model.Series, error) {
		out := make(model.Series, len(cols[0]))
		for i, v := range cols[0] {
			out[i] = 2 * v
		}

		return out, nil
	}
	sim, err := simval.New(sequenceDefaults(), append(xyOptions(),
		simval.Interaction(model.Interaction{Name: "x", Sources: []string{"x"}, Fn: model.Spread(double)}),
	)...)
	require.NoError(t, err)

	var got []string
	validator, err := simval.NewValidator(simval.ModelFuncs{
		"x": func(_ context.Context, inputs *model.Table) (model.Series, error) {
			got = inputs.Names()
			if x, ok := inputs.Column("x"); ok {
				return x, nil
			}

			return make(model.Series, inputs.Len()), nil
		},
	}, sim)
	require.NoError(t, err)

	results, err := validator.Validate(t.Context(), 1, []int{4}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, got)

	comparison := results[0].Comparisons[0]
	assert.Equal(t, model.Series{0, 2, 4, 6}, comparison.Simulated)
	assert.Equal(t, model.Series{0, 0, 0, 0}, comparison.Predicted)
}

func TestValidateModelLengthMismatch(t *testing.T) {
	t.Parallel()

	sim := newXYZSimulator(t)
	validator, err := simval.NewValidator(simval.ModelFuncs{
		"z": func(context.Context, *model.Table) (model.Series, error) {
			return model.Series{1}, nil
		},
	}, sim)
	require.NoError(t, err)

	_, err = validator.Validate(t.Context(), 2, []int{3}, false)
	require.ErrorIs(t, err, simval.ErrLengthMismatch)

	var evalErr *simval.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "model", evalErr.Step)
}

func TestValidateFirstError(t *testing.T) {
	t.Parallel()

	for name, parallel := range map[string]bool{"sequential": false, "parallel": true} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hook := &recordingHook{}
			sim := newXYZSimulator(t, simval.WithHooks(hook))
			validator, err := simval.NewValidator(failOnSize(3), sim, simval.Workers(1))
			require.NoError(t, err)

			results, err := validator.Validate(t.Context(), 5, []int{1, 2, 3}, parallel)
			require.ErrorIs(t, err, assert.AnError)
			assert.Nil(t, results)

			var runErr *simval.RunError
			require.ErrorAs(t, err, &runErr)
			assert.Equal(t, 2, runErr.Run)
			assert.Equal(t, 3, runErr.Size)

			var evalErr *simval.EvaluationError
			require.ErrorAs(t, err, &evalErr)
			assert.Equal(t, "z", evalErr.Column)

			// runs after the failing one never start
			assert.Equal(t, []int{0, 1}, hook.runs)
			assert.Equal(t, 1, hook.finished)
		})
	}
}

func TestValidateContinueOnError(t *testing.T) {
	t.Parallel()

	for name, parallel := range map[string]bool{"sequential": false, "parallel": true} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hook := &recordingHook{}
			sim := newXYZSimulator(t, simval.WithHooks(hook))
			validator, err := simval.NewValidator(failOnSize(2), sim, simval.ContinueOnError())
			require.NoError(t, err)

			results, err := validator.Validate(t.Context(), 4, []int{1, 2, 3, 2}, parallel)
			require.Error(t, err)
			require.ErrorIs(t, err, assert.AnError)
			require.Len(t, results, 4)

			for i, res := range results {
				assert.Equal(t, i, res.Index)
				if res.Size != 2 {
					assert.NoError(t, res.Err)
					assert.Len(t, res.Comparisons, 1)
					continue
				}
				var runErr *simval.RunError
				require.ErrorAs(t, res.Err, &runErr)
				assert.Equal(t, i, runErr.Run)
			}
			assert.ElementsMatch(t, []int{0, 2}, hook.runs)
			assert.Equal(t, 1, hook.finished)
		})
	}
}

func TestValidateCancelledContinueOnError(t *testing.T) {
	t.Parallel()

	for name, parallel := range map[string]bool{"sequential": false, "parallel": true} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			hook := &recordingHook{}
			sim := newXYZSimulator(t, simval.WithHooks(hook))
			validator, err := simval.NewValidator(simval.ModelFuncs{
				"z": func(ctx context.Context, inputs *model.Table) (model.Series, error) {
					cancel()

					return sumModel("x", "y")(ctx, inputs)
				},
			}, sim, simval.Workers(1), simval.ContinueOnError())
			require.NoError(t, err)

			results, err := validator.Validate(ctx, 4, []int{3}, parallel)
			require.ErrorIs(t, err, context.Canceled)
			require.Len(t, results, 4)

			assert.NoError(t, results[0].Err)
			assert.Len(t, results[0].Comparisons, 1)
			for i, res := range results[1:] {
				idx := i + 1
				assert.Equal(t, idx, res.Index)
				assert.Equal(t, 3, res.Size)
				assert.Nil(t, res.Table)

				var runErr *simval.RunError
				require.ErrorAs(t, res.Err, &runErr)
				assert.Equal(t, idx, runErr.Run)
				assert.ErrorIs(t, res.Err, context.Canceled)
			}

			report, err := simval.Aggregate[simval.Report](results, simval.ErrorPolicy{})
			require.NoError(t, err)
			assert.Equal(t, 3, report.FailedRuns)
			z, ok := report.Interaction("z")
			require.True(t, ok)
			assert.Equal(t, 1, z.Runs)

			assert.Equal(t, []int{0}, hook.runs)
			assert.Equal(t, 1, hook.finished)
		})
	}
}

func TestValidateSequentialContinueOnErrorKeepsFailures(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	sim := newXYZSimulator(t)
	validator, err := simval.NewValidator(simval.ModelFuncs{
		"z": func(ctx context.Context, inputs *model.Table) (model.Series, error) {
			if inputs.Len() == 2 {
				cancel()

				return nil, assert.AnError
			}

			return sumModel("x", "y")(ctx, inputs)
		},
	}, sim, simval.ContinueOnError())
	require.NoError(t, err)

	results, err := validator.Validate(ctx, 4, []int{1, 2, 3}, false)
	require.ErrorIs(t, err, assert.AnError)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, assert.AnError)
	assert.ErrorIs(t, results[2].Err, context.Canceled)
	assert.ErrorIs(t, results[3].Err, context.Canceled)
}

func TestValidateCancelled(t *testing.T) {
	t.Parallel()

	for name, parallel := range map[string]bool{"sequential": false, "parallel": true} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sim := newXYZSimulator(t)
			validator, err := simval.NewValidator(simval.ModelFuncs{"z": sumModel("x", "y")}, sim)
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(t.Context())
			cancel()

			_, err = validator.Validate(ctx, 3, []int{2}, parallel)
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestValidateConfigurationError(t *testing.T) {
	t.Parallel()

	sim := newXYZSimulator(t)
	validator, err := simval.NewValidator(simval.ModelFuncs{"z": sumModel("x", "y")}, sim)
	require.NoError(t, err)

	tests := map[string]struct {
		runs    int
		sizes   []int
		wantErr error
	}{
		"no runs":       {runs: 0, sizes: []int{1}, wantErr: simval.ErrInvalidRuns},
		"no sizes":      {runs: 1, wantErr: simval.ErrNoSizes},
		"negative size": {runs: 2, sizes: []int{1, -1}, wantErr: simval.ErrInvalidSize},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			results, err := validator.Validate(t.Context(), tc.runs, tc.sizes, false)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, results)

			var cfgErr *simval.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}
