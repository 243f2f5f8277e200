package simval

import (
	"log/slog"

	"github.com/askiada/go-simval/pkg/simval/model"
)

type columnDecl struct {
	name   string
	config model.ColumnConfig
}

type builder struct {
	columns      []columnDecl
	interactions []model.Interaction
	priority     []string
	hooks        []model.SimulatorOption
	logger       *slog.Logger
}

// Option configures a Simulator at construction.
type Option func(b *builder)

// Column declares a column whose configuration overrides the simulator defaults.
// Declaring the same name again replaces the configuration and keeps the first position.
func Column(name string, config model.ColumnConfig) Option {
	return func(b *builder) {
		for i, decl := range b.columns {
			if decl.name == name {
				b.columns[i].config = config
				return
			}
		}
		b.columns = append(b.columns, columnDecl{name: name, config: config})
	}
}

// Interaction declares an interaction recipe.
// Declaring the same name again replaces the recipe and keeps the first position.
func Interaction(ix model.Interaction) Option {
	return func(b *builder) {
		for i, decl := range b.interactions {
			if decl.Name == ix.Name {
				b.interactions[i] = ix
				return
			}
		}
		b.interactions = append(b.interactions, ix)
	}
}

// InteractionPriority lists the interactions to evaluate first, in that order.
func InteractionPriority(names ...string) Option {
	return func(b *builder) {
		b.priority = append([]string{}, names...)
	}
}

// WithHooks registers lifecycle hooks such as measures and drawers.
func WithHooks(hooks ...model.SimulatorOption) Option {
	return func(b *builder) {
		b.hooks = append(b.hooks, hooks...)
	}
}

// WithLogger sets the logger used by the simulator. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(b *builder) {
		b.logger = logger
	}
}

type validatorConfig struct {
	workers         int
	continueOnError bool
	logger          *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(c *validatorConfig)

// Workers bounds the number of runs executed at once in parallel mode.
// It defaults to runtime.GOMAXPROCS(0).
func Workers(n int) ValidatorOption {
	return func(c *validatorConfig) {
		c.workers = n
	}
}

// ContinueOnError makes Validate execute every run even when some of them fail.
// Failures are recorded on their RunResult and returned joined together.
func ContinueOnError() ValidatorOption {
	return func(c *validatorConfig) {
		c.continueOnError = true
	}
}

// WithValidatorLogger sets the logger used by the validator. Logs are discarded by default.
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(c *validatorConfig) {
		c.logger = logger
	}
}
