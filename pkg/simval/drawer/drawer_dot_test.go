package drawer_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-simval/pkg/simval"
	"github.com/askiada/go-simval/pkg/simval/drawer"
	"github.com/askiada/go-simval/pkg/simval/measure"
	"github.com/askiada/go-simval/pkg/simval/model"
)

func ones(size int, _ model.Kwargs) (model.Series, error) {
	out := make(model.Series, size)
	for i := range out {
		out[i] = 1
	}

	return out, nil
}

func sum(_ model.Kwargs, cols ...model.Series) (model.Series, error) {
	out := make(model.Series, len(cols[0]))
	for _, col := range cols {
		for i, v := range col {
			out[i] += v
		}
	}

	return out, nil
}

func TestDOTDrawerRender(t *testing.T) {
	t.Parallel()

	dd := drawer.NewDOTDrawer("unused.dot")
	require.NoError(t, dd.AddStep("a"))
	require.NoError(t, dd.AddStep("b"))
	require.NoError(t, dd.AddLink("a", "b"))
	require.NoError(t, dd.SetLabel("b", "avg: 1ms"))

	require.Error(t, dd.AddLink("a", "missing"))
	require.Error(t, dd.SetLabel("missing", "label"))

	var buf bytes.Buffer
	require.NoError(t, dd.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "strict digraph {")
	assert.Contains(t, out, `"a" -> "b"`)
	assert.Contains(t, out, `label=<b <BR /> <FONT POINT-SIZE="12">avg: 1ms</FONT>>`)

	var again bytes.Buffer
	require.NoError(t, dd.Render(&again))
	assert.Equal(t, out, again.String())
}

func TestSimulatorDrawer(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "plan.dot")
	msr := measure.NewDefaultMeasure()
	sim, err := simval.New(
		model.ColumnConfig{Distribution: model.Distribution(ones, nil)},
		simval.Column("a", model.ColumnConfig{}),
		simval.Column("b", model.ColumnConfig{}),
		simval.Interaction(model.Interaction{Name: "ab", Sources: []string{"a", "b"}, Fn: model.Spread(sum)}),
		simval.WithHooks(measure.SimulatorMeasure(msr), drawer.SimulatorDrawer(drawer.NewDOTDrawer(fileName), msr)),
	)
	require.NoError(t, err)

	validator, err := simval.NewValidator(simval.ModelFuncs{
		"ab": func(_ context.Context, inputs *model.Table) (model.Series, error) {
			return sum(nil, inputs.Columns()...)
		},
	}, sim)
	require.NoError(t, err)

	_, err = validator.Validate(t.Context(), 2, []int{3}, false)
	require.NoError(t, err)

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	out := string(content)

	assert.Contains(t, out, `"a/distribution" -> "interaction/ab"`)
	assert.Contains(t, out, `"b/distribution" -> "interaction/ab"`)
	assert.Contains(t, out, `"interaction/ab" -> "table"`)
	assert.Contains(t, out, "avg: ")
	assert.Contains(t, out, "runs: 2, avg run: ")
	assert.Contains(t, out, `color="#`)
}

func TestSimulatorDrawerWithoutMeasure(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "plan.dot")
	opt := drawer.SimulatorDrawer(drawer.NewDOTDrawer(fileName), nil)
	require.NoError(t, opt.New(model.PlanInfo{
		Columns: []model.ColumnPlan{{Name: "x", Steps: []string{model.DistributionStep, "abs"}}},
	}))
	require.NoError(t, opt.OnStepOutput("x", "abs", time.Millisecond))
	require.NoError(t, opt.Finish())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"x/distribution" -> "x/abs"`)
	assert.Contains(t, string(content), `"x/abs" -> "table"`)
	assert.NotContains(t, string(content), "avg: ")
}

func TestSimulatorDrawerAfterFailedRun(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "plan.dot")
	msr := measure.NewDefaultMeasure()
	sim, err := simval.New(
		model.ColumnConfig{Distribution: model.Distribution(ones, nil)},
		simval.Column("a", model.ColumnConfig{}),
		simval.Interaction(model.Interaction{Name: "aa", Sources: []string{"a"}, Fn: model.Spread(sum)}),
		simval.WithHooks(measure.SimulatorMeasure(msr), drawer.SimulatorDrawer(drawer.NewDOTDrawer(fileName), msr)),
	)
	require.NoError(t, err)

	validator, err := simval.NewValidator(simval.ModelFuncs{
		"aa": func(context.Context, *model.Table) (model.Series, error) {
			return nil, assert.AnError
		},
	}, sim)
	require.NoError(t, err)

	_, err = validator.Validate(t.Context(), 2, []int{3}, false)
	require.ErrorIs(t, err, assert.AnError)

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"a/distribution" -> "interaction/aa"`)
}
