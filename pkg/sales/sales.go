// Package sales provides a ready-made recipe simulating daily sales as a positive random walk,
// along with a revenue interaction and a reference model to validate against.
package sales

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/askiada/go-simval/pkg/simval"
	"github.com/askiada/go-simval/pkg/simval/model"
)

const (
	// DefaultMinimum is the floor applied by the set_minimum step.
	DefaultMinimum = 100.0
	// DefaultLoc is the mean of the random walk increments.
	DefaultLoc = 0.0
	// DefaultScale is the standard deviation of the random walk increments.
	DefaultScale = 0.1

	// FlipNegative names the step folding the walk to positive values.
	FlipNegative = "flip_negative"
	// SetMinimum names the step moving the walk above its minimum.
	SetMinimum = "set_minimum"

	// Units is the number of items sold.
	Units = "units"
	// Price is the unit price.
	Price = "price"
	// Revenue is the interaction column, units times price.
	Revenue = "revenue"
)

// ErrInvalidScale is returned by RandomWalk for a negative scale.
var ErrInvalidScale = errors.New("scale must not be negative")

// RandomWalk draws size normal increments and returns their cumulative sum.
// Kwargs: loc, scale and an optional seed. Without a seed the process-wide generator is used.
func RandomWalk(size int, kw model.Kwargs) (model.Series, error) {
	loc, err := kw.Float("loc", DefaultLoc)
	if err != nil {
		return nil, err
	}
	scale, err := kw.Float("scale", DefaultScale)
	if err != nil {
		return nil, err
	}
	if scale < 0 {
		return nil, errors.Wrapf(ErrInvalidScale, "got %f", scale)
	}

	normal := rand.NormFloat64
	if _, ok := kw["seed"]; ok {
		seed, err := kw.Int("seed", 0)
		if err != nil {
			return nil, err
		}
		normal = rand.New(rand.NewPCG(uint64(seed), uint64(seed))).NormFloat64
	}

	out := make(model.Series, size)
	sum := 0.0
	for i := range out {
		sum += loc + scale*normal()
		out[i] = sum
	}

	return out, nil
}

// Abs returns the absolute value of every element.
func Abs(in model.Series, _ model.Kwargs) (model.Series, error) {
	out := make(model.Series, len(in))
	for i, v := range in {
		out[i] = math.Abs(v)
	}

	return out, nil
}

// ScaleFrom returns (x + 1) * minimum for every element. Kwargs: minimum.
func ScaleFrom(in model.Series, kw model.Kwargs) (model.Series, error) {
	minimum, err := kw.Float("minimum", DefaultMinimum)
	if err != nil {
		return nil, err
	}
	out := make(model.Series, len(in))
	for i, v := range in {
		out[i] = (v + 1) * minimum
	}

	return out, nil
}

// Defaults returns the sales recipe: a random walk around zero, folded to positive values and
// moved above minimum.
func Defaults(minimum float64) model.ColumnConfig {
	return model.ColumnConfig{
		Distribution: model.Distribution(RandomWalk, model.Kwargs{"loc": DefaultLoc, "scale": DefaultScale}),
		Priority:     []string{FlipNegative, SetMinimum},
		Steps: []model.NamedStep{
			model.Transform(FlipNegative, Abs, nil),
			model.Transform(SetMinimum, ScaleFrom, model.Kwargs{"minimum": minimum}),
		},
	}
}

// Multiply is the revenue interaction: the element-wise product of its source columns.
func Multiply(_ model.Kwargs, cols ...model.Series) (model.Series, error) {
	if len(cols) == 0 {
		return nil, errors.New("at least one column is required")
	}
	out := make(model.Series, len(cols[0]))
	for i := range out {
		out[i] = 1
		for _, col := range cols {
			out[i] *= col[i]
		}
	}

	return out, nil
}

// NewSimulator returns a simulator with a units and a price column and the revenue interaction.
// seed is applied to both columns when not nil, making every table identical.
func NewSimulator(minimum float64, seed *int, opts ...simval.Option) (*simval.Simulator, error) {
	unitsKw := model.Kwargs{"loc": DefaultLoc, "scale": DefaultScale}
	priceKw := model.Kwargs{"loc": DefaultLoc, "scale": DefaultScale / 10}
	if seed != nil {
		unitsKw["seed"] = *seed
		priceKw["seed"] = *seed + 1
	}

	base := []simval.Option{
		simval.Column(Units, model.ColumnConfig{Distribution: model.Distribution(RandomWalk, unitsKw)}),
		simval.Column(Price, model.ColumnConfig{
			Distribution: model.Distribution(RandomWalk, priceKw),
			Steps:        []model.NamedStep{model.Transform(SetMinimum, ScaleFrom, model.Kwargs{"minimum": 1.0})},
		}),
		simval.Interaction(model.Interaction{
			Name:    Revenue,
			Sources: []string{Units, Price},
			Fn:      model.Spread(Multiply),
		}),
	}

	return simval.New(Defaults(minimum), append(base, opts...)...)
}

// ReferenceModel predicts revenue as units * price * (1 + bias). A zero bias is a perfect model.
func ReferenceModel(bias float64) simval.ModelFuncs {
	return simval.ModelFuncs{
		Revenue: func(_ context.Context, inputs *model.Table) (model.Series, error) {
			units, ok := inputs.Column(Units)
			if !ok {
				return nil, errors.Wrap(model.ErrColumnNotFound, Units)
			}
			price, ok := inputs.Column(Price)
			if !ok {
				return nil, errors.Wrap(model.ErrColumnNotFound, Price)
			}
			out := make(model.Series, len(units))
			for i := range out {
				out[i] = units[i] * price[i] * (1 + bias)
			}

			return out, nil
		},
	}
}
