package simval

import (
	"math"

	"github.com/pkg/errors"
)

// Policy turns the results of a validation into a report.
type Policy[R any] interface {
	Aggregate(results []RunResult) (R, error)
}

// PolicyFunc adapts a function to a Policy.
type PolicyFunc[R any] func(results []RunResult) (R, error)

// Aggregate calls f.
func (f PolicyFunc[R]) Aggregate(results []RunResult) (R, error) {
	return f(results)
}

// Aggregate applies policy to results.
func Aggregate[R any](results []RunResult, policy Policy[R]) (R, error) {
	return policy.Aggregate(results)
}

// InteractionReport summarises the error between predicted and simulated values of one
// interaction over every successful run.
type InteractionReport struct {
	Name        string
	Runs        int
	Rows        int
	MAE         float64
	RMSE        float64
	MaxAbsError float64
	// Bias is the mean of predicted minus simulated.
	Bias float64
	// Slope is the least squares slope of predicted on simulated: how much the prediction moves
	// per unit of the ground truth. It is NaN when the simulated values are constant.
	Slope float64
}

// Report is produced by ErrorPolicy.
type Report struct {
	Interactions []InteractionReport
	FailedRuns   int
}

// Interaction returns the report of the named interaction.
func (r Report) Interaction(name string) (InteractionReport, bool) {
	for _, ir := range r.Interactions {
		if ir.Name == name {
			return ir, true
		}
	}

	return InteractionReport{}, false
}

// ErrorPolicy is the default policy: error metrics per interaction, pooled over all rows of all
// successful runs. Failed runs are counted and skipped.
type ErrorPolicy struct{}

type accumulator struct {
	runs, rows                 int
	sumAbs, sumSq, maxAbs      float64
	sumSim, sumPred            float64
	sumSimSq, sumSimPred, bias float64
}

func (a *accumulator) add(simulated, predicted []float64) {
	a.runs++
	for i, sim := range simulated {
		pred := predicted[i]
		diff := pred - sim
		a.rows++
		a.sumAbs += math.Abs(diff)
		a.sumSq += diff * diff
		a.maxAbs = math.Max(a.maxAbs, math.Abs(diff))
		a.bias += diff
		a.sumSim += sim
		a.sumPred += pred
		a.sumSimSq += sim * sim
		a.sumSimPred += sim * pred
	}
}

func (a *accumulator) report(name string) InteractionReport {
	ir := InteractionReport{Name: name, Runs: a.runs, Rows: a.rows, Slope: math.NaN()}
	if a.rows == 0 {
		ir.MAE, ir.RMSE, ir.MaxAbsError, ir.Bias = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return ir
	}
	n := float64(a.rows)
	ir.MAE = a.sumAbs / n
	ir.RMSE = math.Sqrt(a.sumSq / n)
	ir.MaxAbsError = a.maxAbs
	ir.Bias = a.bias / n

	varSim := a.sumSimSq - a.sumSim*a.sumSim/n
	if varSim > 0 {
		ir.Slope = (a.sumSimPred - a.sumSim*a.sumPred/n) / varSim
	}

	return ir
}

// Aggregate implements Policy.
func (ErrorPolicy) Aggregate(results []RunResult) (Report, error) {
	var report Report
	var order []string
	accs := make(map[string]*accumulator)
	for _, res := range results {
		if res.Err != nil {
			report.FailedRuns++
			continue
		}
		for _, cmp := range res.Comparisons {
			if len(cmp.Simulated) != len(cmp.Predicted) {
				return Report{}, errors.Wrapf(ErrLengthMismatch, "run %d, interaction %s", res.Index, cmp.Name)
			}
			acc, ok := accs[cmp.Name]
			if !ok {
				acc = &accumulator{}
				accs[cmp.Name] = acc
				order = append(order, cmp.Name)
			}
			acc.add(cmp.Simulated, cmp.Predicted)
		}
	}

	report.Interactions = make([]InteractionReport, len(order))
	for i, name := range order {
		report.Interactions[i] = accs[name].report(name)
	}

	return report, nil
}

var _ Policy[Report] = ErrorPolicy{}
