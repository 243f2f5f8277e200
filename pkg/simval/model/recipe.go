package model

// ColumnConfig is the generation plan of one column: a base distribution followed by a chain of
// transform steps. Steps listed in Priority run first, in that order, and the remaining steps
// follow in declaration order.
type ColumnConfig struct {
	Distribution *Step[DistributionFunc]
	Priority     []string
	Steps        []NamedStep
}

// Merge resolves override on top of c and returns the result. c and override are left untouched.
//
// The override distribution and priority win when set; a non-nil empty priority clears the
// default one. Steps are merged by name: an override step replaces the step of the same name
// in place, new names are appended in override order.
func (c ColumnConfig) Merge(override ColumnConfig) ColumnConfig {
	merged := ColumnConfig{
		Distribution: c.Distribution,
		Priority:     append([]string(nil), c.Priority...),
	}
	if override.Distribution != nil {
		merged.Distribution = override.Distribution
	}
	if override.Priority != nil {
		merged.Priority = append([]string{}, override.Priority...)
	}

	merged.Steps = make([]NamedStep, 0, len(c.Steps)+len(override.Steps))
	position := make(map[string]int, len(c.Steps)+len(override.Steps))
	for _, steps := range [][]NamedStep{c.Steps, override.Steps} {
		for _, step := range steps {
			step.Step.Kwargs = step.Step.Kwargs.Clone()
			if idx, ok := position[step.Name]; ok {
				merged.Steps[idx] = step
				continue
			}
			position[step.Name] = len(merged.Steps)
			merged.Steps = append(merged.Steps, step)
		}
	}
	if merged.Distribution != nil {
		dist := Bound(merged.Distribution.Fn, merged.Distribution.Kwargs)
		merged.Distribution = &dist
	}

	return merged
}

// Axis selects how an interaction function is applied to the table.
type Axis string

const (
	// WholeColumn invokes the interaction once over the full source columns.
	WholeColumn Axis = "whole-column"
	// PerRow invokes the interaction once per row on a one-row table.
	PerRow Axis = "per-row"
)

// SpreadFunc receives the source columns as separate arguments, in source order.
type SpreadFunc func(kw Kwargs, cols ...Series) (Series, error)

// BundleFunc receives the source columns bundled in a single table, in source order.
type BundleFunc func(frame *Table, kw Kwargs) (Series, error)

// InteractionFunc is either a SpreadFunc or a BundleFunc.
type InteractionFunc struct {
	spread SpreadFunc
	bundle BundleFunc
}

// Spread wraps fn so that source columns are passed as separate arguments.
func Spread(fn SpreadFunc) InteractionFunc {
	return InteractionFunc{spread: fn}
}

// Bundle wraps fn so that source columns are passed as one table.
func Bundle(fn BundleFunc) InteractionFunc {
	return InteractionFunc{bundle: fn}
}

// Split reports whether source columns are passed as separate arguments.
func (f InteractionFunc) Split() bool {
	return f.spread != nil
}

// IsZero reports whether no function was set.
func (f InteractionFunc) IsZero() bool {
	return f.spread == nil && f.bundle == nil
}

// Call invokes the wrapped function on frame using its calling convention.
func (f InteractionFunc) Call(frame *Table, kw Kwargs) (Series, error) {
	if f.spread != nil {
		return f.spread(kw, frame.Columns()...)
	}

	return f.bundle(frame, kw)
}

// Interaction derives the column Name from the Sources columns of the table.
type Interaction struct {
	Name    string
	Sources []string
	Fn      InteractionFunc
	Kwargs  Kwargs
	// Axis defaults to WholeColumn.
	Axis Axis
}

// Clone returns a deep copy of the interaction recipe.
func (ix Interaction) Clone() Interaction {
	ix.Sources = append([]string(nil), ix.Sources...)
	ix.Kwargs = ix.Kwargs.Clone()
	if ix.Axis == "" {
		ix.Axis = WholeColumn
	}

	return ix
}
