package simval

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-simval/pkg/simval/model"
)

func checkInteraction(ix model.Interaction) error {
	if ix.Name == "" {
		return configErr("interaction", ErrEmptyName)
	}
	subject := "interaction " + ix.Name
	if ix.Fn.IsZero() {
		return configErr(subject, ErrNilFunction)
	}
	if ix.Axis != model.WholeColumn && ix.Axis != model.PerRow {
		return configErr(subject, errors.Wrapf(ErrInvalidAxis, "got %q", ix.Axis))
	}
	seen := make(map[string]struct{}, len(ix.Sources))
	for _, src := range ix.Sources {
		if src == "" {
			return configErr(subject, errors.Wrap(ErrEmptyName, "source"))
		}
		if _, dup := seen[src]; dup {
			return configErr(subject, errors.Wrap(ErrDuplicateSource, src))
		}
		seen[src] = struct{}{}
	}

	return nil
}

// orderInteractions returns the interactions listed in priority first, then the others in
// declaration order.
func orderInteractions(interactions []model.Interaction, priority []string) ([]model.Interaction, error) {
	byName := make(map[string]model.Interaction, len(interactions))
	for _, ix := range interactions {
		byName[ix.Name] = ix
	}

	ordered := make([]model.Interaction, 0, len(interactions))
	consumed := make(map[string]struct{}, len(priority))
	for _, name := range priority {
		ix, ok := byName[name]
		if !ok {
			return nil, configErr("interactions", errors.Wrap(ErrUnknownPriority, name))
		}
		if _, dup := consumed[name]; dup {
			return nil, configErr("interactions", errors.Wrap(ErrDuplicatePriority, name))
		}
		consumed[name] = struct{}{}
		ordered = append(ordered, ix)
	}
	for _, ix := range interactions {
		if _, ok := consumed[ix.Name]; ok {
			continue
		}
		ordered = append(ordered, ix)
	}

	return ordered, nil
}

// evaluateInteractions takes ownership of table, adds every interaction column to it and
// returns it. On error the table must be discarded.
func (s *Simulator) evaluateInteractions(table *model.Table) (*model.Table, error) {
	for _, ix := range s.interactions {
		start := time.Now()
		out, err := s.evaluateInteraction(table, ix)
		if err != nil {
			return nil, err
		}
		err = table.Set(ix.Name, out)
		if err != nil {
			return nil, &EvaluationError{Column: ix.Name, Step: interactionStep, Err: err}
		}
		for _, opt := range s.hooks {
			err := opt.OnInteractionOutput(ix.Name, ix.Sources, time.Since(start))
			if err != nil {
				return nil, &EvaluationError{Column: ix.Name, Step: hookStep, Err: errors.Wrap(err, "unable to run interaction output hook")}
			}
		}
		s.logger.Debug("interaction evaluated", "name", ix.Name, "rows", table.Len())
	}

	return table, nil
}

func (s *Simulator) evaluateInteraction(table *model.Table, ix model.Interaction) (model.Series, error) {
	for _, src := range ix.Sources {
		if !table.Has(src) {
			return nil, &EvaluationError{
				Column: ix.Name,
				Step:   interactionStep,
				Err:    configErr("interaction "+ix.Name, errors.Wrap(ErrMissingColumn, src)),
			}
		}
	}
	frame, err := table.Select(ix.Sources...)
	if err != nil {
		return nil, &EvaluationError{Column: ix.Name, Step: interactionStep, Err: err}
	}

	if ix.Axis == model.PerRow {
		return evaluatePerRow(frame, ix)
	}

	out, err := ix.Fn.Call(frame, ix.Kwargs)
	if err != nil {
		return nil, &EvaluationError{Column: ix.Name, Step: interactionStep, Err: err}
	}
	if len(out) != frame.Len() {
		return nil, &EvaluationError{
			Column: ix.Name,
			Step:   interactionStep,
			Err:    errors.Wrapf(ErrLengthMismatch, "got %d, want %d", len(out), frame.Len()),
		}
	}

	return out, nil
}

// evaluatePerRow calls the interaction on a one-row table per row and keeps the single value
// it returns.
func evaluatePerRow(frame *model.Table, ix model.Interaction) (model.Series, error) {
	out := make(model.Series, frame.Len())
	for i := range out {
		res, err := ix.Fn.Call(frame.Row(i), ix.Kwargs)
		if err != nil {
			return nil, &EvaluationError{Column: ix.Name, Step: interactionStep, Err: errors.Wrapf(err, "row %d", i)}
		}
		if len(res) != 1 {
			return nil, &EvaluationError{
				Column: ix.Name,
				Step:   interactionStep,
				Err:    errors.Wrapf(ErrLengthMismatch, "row %d: got %d values, want 1", i, len(res)),
			}
		}
		out[i] = res[0]
	}

	return out, nil
}
