package simval

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/askiada/go-simval/pkg/simval/model"
)

var (
	ErrMissingDistribution = errors.New("a default distribution must be set")
	ErrNilFunction         = errors.New("function must be set")
	ErrEmptyName           = errors.New("name must be set")
	ErrUnknownPriority     = errors.New("priority name is not declared")
	ErrDuplicatePriority   = errors.New("priority name listed twice")
	ErrDuplicateSource     = errors.New("source column listed twice")
	ErrInvalidAxis         = errors.New("axis must be whole-column or per-row")
	ErrMissingColumn       = errors.New("column is not in the table")
	ErrMissingModelFunc    = errors.New("model does not expose a function for the interaction")
	ErrModelMustBeSet      = errors.New("model must be set")
	ErrSimulatorMustBeSet  = errors.New("simulator must be set")
	ErrInvalidSize         = errors.New("size must be greater than 0")
	ErrInvalidRuns         = errors.New("number of runs must be greater than 0")
	ErrNoSizes             = errors.New("at least one size must be given")
	ErrInvalidWorkers      = errors.New("workers must be greater than 0")
	ErrLengthMismatch      = model.ErrLengthMismatch
)

// ConfigurationError reports a malformed recipe or harness configuration.
// It is never retried.
type ConfigurationError struct {
	Subject string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Subject, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(subject string, err error) error {
	return &ConfigurationError{Subject: subject, Err: err}
}

// Step names used by EvaluationError for failures outside column steps.
const (
	interactionStep = "interaction"
	modelStep       = "model"
	hookStep        = "hook"
)

// EvaluationError reports a failure while building a table: a user function returned an error
// or a series of the wrong length, or an interaction read a column that does not exist.
type EvaluationError struct {
	Column string
	Step   string
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error: column %s, step %s: %v", e.Column, e.Step, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// RunError reports the failure of a single validation run.
type RunError struct {
	Run  int
	Size int
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %d (size %d): %v", e.Run, e.Size, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
