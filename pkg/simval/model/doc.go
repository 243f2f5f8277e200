// Package model provides the data structures shared by the simulator, its hooks and its callers.
// It defines the recipe types (steps, column configurations, interactions), the table the
// simulator materializes, and the lifecycle hook interface observed by measures and drawers.
package model
