package model

import "time"

// SimulatorOption defines the interface for simulator lifecycle hooks.
//
// Hooks observe a simulator that may be running several simulations at once, so every method
// except New must be safe for concurrent use.
type SimulatorOption interface {
	// New initialises the option with the static execution plan of the simulator.
	New(plan PlanInfo) error

	simulatorStepOption
	simulatorRunOption

	// Finish runs once the caller is done with the simulator.
	Finish() error
}

// simulatorStepOption defines the hooks called while a table is being built.
type simulatorStepOption interface {
	// OnStepOutput runs everytime a column step (distribution included) produced its series.
	OnStepOutput(column, step string, elapsed time.Duration) error
	// OnInteractionOutput runs everytime an interaction produced its column.
	OnInteractionOutput(name string, sources []string, elapsed time.Duration) error
}

// simulatorRunOption defines the hooks called by the validation harness.
type simulatorRunOption interface {
	// OnRunOutput runs everytime a validation run completed successfully.
	OnRunOutput(run, size int, elapsed time.Duration) error
}
