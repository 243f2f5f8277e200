// Package simval generates synthetic tables from declarative recipes and validates trained models
// against them.
//
// A Simulator owns one recipe per column: a base distribution followed by a chain of transform
// steps. Steps named in the priority list of a column run first, in that order, and every other
// step follows in declaration order. Once every column exists, interaction recipes derive new
// columns from existing ones, using the same two-tier ordering. An interaction can read the
// output of an interaction evaluated before it.
//
// A Validator repeatedly asks the Simulator for a table and compares each interaction column with
// the prediction of the model function of the same name. Runs are independent, so they can be
// spread over a bounded pool of workers; results always come back in submission order. The
// comparison results are turned into diagnostics by a pluggable Policy, ErrorPolicy being the
// default.
//
// Errors are typed: ConfigurationError for malformed recipes (detected at construction whenever
// possible), EvaluationError for failures while building a table and RunError for a failed
// validation run. Nothing is retried.
//
// Simulators accept lifecycle hooks (see model.SimulatorOption) which the measure and drawer
// packages implement to time every step and render the execution plan.
package simval
