package simval

import (
	"context"
	stderrors "errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-simval/pkg/simval/model"
)

// ModelFunc predicts an interaction column from the model input columns.
type ModelFunc func(ctx context.Context, inputs *model.Table) (model.Series, error)

// Model exposes one function per interaction it was trained to predict.
type Model interface {
	Lookup(name string) (ModelFunc, bool)
}

// ModelFuncs is a Model backed by a map.
type ModelFuncs map[string]ModelFunc

// Lookup returns the function registered under name.
func (m ModelFuncs) Lookup(name string) (ModelFunc, bool) {
	fn, ok := m[name]

	return fn, ok
}

var _ Model = ModelFuncs(nil)

// Comparison holds the simulated and predicted values of one interaction for one run.
type Comparison struct {
	Name      string
	Simulated model.Series
	Predicted model.Series
}

// RunResult is the outcome of one validation run.
type RunResult struct {
	Index       int
	Size        int
	Table       *model.Table
	Comparisons []Comparison
	// Err is only set when the validator was created with ContinueOnError.
	Err error
}

type namedModelFunc struct {
	name string
	fn   ModelFunc
}

// Validator repeatedly simulates tables and compares the interaction columns against the
// predictions of a trained model.
type Validator struct {
	sim    *Simulator
	funcs  []namedModelFunc
	inputs []string
	cfg    validatorConfig
}

// NewValidator checks that m exposes a function for every interaction declared on sim.
func NewValidator(m Model, sim *Simulator, opts ...ValidatorOption) (*Validator, error) {
	if m == nil {
		return nil, configErr("validator", ErrModelMustBeSet)
	}
	if sim == nil {
		return nil, configErr("validator", ErrSimulatorMustBeSet)
	}

	cfg := validatorConfig{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers <= 0 {
		return nil, configErr("validator", errors.Wrapf(ErrInvalidWorkers, "got %d", cfg.workers))
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	names := sim.InteractionNames()
	outputs := make(map[string]struct{}, len(names))
	funcs := make([]namedModelFunc, 0, len(names))
	for _, name := range names {
		fn, ok := m.Lookup(name)
		if !ok || fn == nil {
			return nil, configErr("model", errors.Wrap(ErrMissingModelFunc, name))
		}
		funcs = append(funcs, namedModelFunc{name: name, fn: fn})
		outputs[name] = struct{}{}
	}

	// an interaction overwriting a column holds the ground truth, it is never a model input
	var inputs []string
	for _, name := range sim.ColumnNames() {
		if _, ok := outputs[name]; !ok {
			inputs = append(inputs, name)
		}
	}

	return &Validator{
		sim:    sim,
		funcs:  funcs,
		inputs: inputs,
		cfg:    cfg,
	}, nil
}

// Validate runs nRuns simulations and returns their results in submission order.
// See NormalizeSizes for how sizes maps to runs.
//
// When parallel is true runs are spread over a bounded pool of workers. By default the first
// failing run is returned as a *RunError and runs that did not start yet are skipped.
// With ContinueOnError every result is returned: a run that failed, or that never started
// because ctx was cancelled, carries a *RunError.
//
// The Finish hooks of the simulator run once every run is over, whether runs failed or not.
func (v *Validator) Validate(ctx context.Context, nRuns int, sizes []int, parallel bool) ([]RunResult, error) {
	runSizes, err := NormalizeSizes(nRuns, sizes)
	if err != nil {
		return nil, err
	}

	results := make([]RunResult, nRuns)
	for idx, size := range runSizes {
		results[idx] = RunResult{Index: idx, Size: size}
	}
	if parallel {
		err = v.runParallel(ctx, results)
	} else {
		err = v.runSequential(ctx, results)
	}

	finishErr := v.sim.Finish()
	if finishErr != nil || (err != nil && !v.cfg.continueOnError) {
		return nil, stderrors.Join(err, finishErr)
	}

	return results, err
}

func (v *Validator) runSequential(ctx context.Context, results []RunResult) error {
	for idx := range results {
		if err := ctx.Err(); err != nil {
			if !v.cfg.continueOnError {
				return errors.Wrap(err, "validation cancelled")
			}
			for i := idx; i < len(results); i++ {
				v.skip(&results[i], err)
			}

			break
		}
		res, err := v.run(ctx, idx, results[idx].Size)
		results[idx] = res
		if err != nil && !v.cfg.continueOnError {
			return err
		}
	}

	return joinRunErrors(results)
}

func (v *Validator) runParallel(ctx context.Context, results []RunResult) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(v.cfg.workers)

	// each index is written by a single goroutine and read after Wait
	started := make([]bool, len(results))
	for idx := range results {
		if dCtx.Err() != nil {
			break
		}
		size := results[idx].Size
		errGrp.Go(func() error {
			// runs waiting for a worker slot are skipped once another run failed
			if err := dCtx.Err(); err != nil {
				if v.cfg.continueOnError {
					return nil
				}

				return errors.Wrapf(err, "run %d", idx)
			}
			started[idx] = true
			res, err := v.run(dCtx, idx, size)
			results[idx] = res
			if err != nil && !v.cfg.continueOnError {
				return err
			}

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return err
	}
	if !v.cfg.continueOnError {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "validation cancelled")
		}

		return nil
	}

	// runs only stay unstarted when the caller cancelled ctx
	if cause := ctx.Err(); cause != nil {
		for idx, ok := range started {
			if !ok {
				v.skip(&results[idx], cause)
			}
		}
	}

	return joinRunErrors(results)
}

// skip records that the run never started because of cause.
func (v *Validator) skip(res *RunResult, cause error) {
	res.Err = &RunError{Run: res.Index, Size: res.Size, Err: errors.Wrap(cause, "run not started")}
	v.cfg.logger.Warn("run skipped", "run", res.Index, "size", res.Size, "error", cause)
}

func joinRunErrors(results []RunResult) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}

	return stderrors.Join(errs...)
}

// run builds one table and compares every interaction column with the model prediction.
// The returned result always carries its index and size.
func (v *Validator) run(ctx context.Context, idx, size int) (RunResult, error) {
	res := RunResult{Index: idx, Size: size}
	start := time.Now()
	v.cfg.logger.Debug("run started", "run", idx, "size", size)

	fail := func(err error) (RunResult, error) {
		runErr := &RunError{Run: idx, Size: size, Err: err}
		res.Err = runErr
		v.cfg.logger.Warn("run failed", "run", idx, "size", size, "error", err)

		return res, runErr
	}

	table, err := v.sim.Simulate(size)
	if err != nil {
		return fail(err)
	}
	res.Table = table

	inputs, err := table.Select(v.inputs...)
	if err != nil {
		return fail(errors.Wrap(err, "unable to select model inputs"))
	}

	res.Comparisons = make([]Comparison, 0, len(v.funcs))
	for _, nf := range v.funcs {
		simulated, _ := table.Column(nf.name)
		predicted, err := nf.fn(ctx, inputs)
		if err != nil {
			return fail(&EvaluationError{Column: nf.name, Step: modelStep, Err: err})
		}
		if len(predicted) != len(simulated) {
			return fail(&EvaluationError{
				Column: nf.name,
				Step:   modelStep,
				Err:    errors.Wrapf(ErrLengthMismatch, "got %d, want %d", len(predicted), len(simulated)),
			})
		}
		res.Comparisons = append(res.Comparisons, Comparison{Name: nf.name, Simulated: simulated, Predicted: predicted})
	}

	elapsed := time.Since(start)
	for _, opt := range v.sim.hooks {
		err := opt.OnRunOutput(idx, size, elapsed)
		if err != nil {
			return fail(errors.Wrap(err, "unable to run run output hook"))
		}
	}
	v.cfg.logger.Debug("run finished", "run", idx, "size", size, "elapsed", elapsed)

	return res, nil
}
